package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/model"
)

// In-memory fakes for the repository interfaces. Plain structs, no mock
// framework; what each fake does is visible right here.

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	// set to simulate a database failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
	}
	user.ID = f.nextID
	user.IsAdmin = len(f.users) == 0
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "no user with email " + email}
}

type fakePostRepo struct {
	posts  map[int64]*model.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*model.Post), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	for _, p := range f.posts {
		if p.Title == post.Title {
			return apperror.Conflict("post", "title already taken")
		}
	}
	post.ID = f.nextID
	f.nextID++
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) List(ctx context.Context) ([]model.Post, error) {
	// newest first, by descending id
	out := make([]model.Post, 0, len(f.posts))
	for id := f.nextID - 1; id >= 1; id-- {
		if p, ok := f.posts[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return apperror.NotFound("post", post.ID)
	}
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.posts, id)
	return nil
}

type fakeCommentRepo struct {
	comments []model.Comment
	posts    *fakePostRepo // for the foreign-key check
	nextID   int64
}

func newFakeCommentRepo(posts *fakePostRepo) *fakeCommentRepo {
	return &fakeCommentRepo{posts: posts, nextID: 1}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if _, ok := f.posts.posts[comment.PostID]; !ok {
		return apperror.NotFound("post", comment.PostID)
	}
	comment.ID = f.nextID
	f.nextID++
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

// testLogger discards everything below Error so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService wires an AuthService with fakes and a fast bcrypt cost.
func newTestAuthService(t *testing.T, users *fakeUserRepo) *AuthService {
	t.Helper()
	return NewAuthService(users, auth.NewPasswordServiceForTest(4), testLogger())
}
