package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/inkwell/internal/apperror"
)

func newTestBlogService(posts *fakePostRepo, comments *fakeCommentRepo) *BlogService {
	svc := NewBlogService(posts, comments, testLogger())
	// Pin "today" so the stamped date is deterministic.
	svc.now = func() time.Time { return time.Date(2026, time.August, 7, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestBlogCreate_StampsDate(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo(posts))

	post, err := svc.Create(context.Background(), 1, "Title", "Subtitle", "<p>body</p>", "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// "Month DD, YYYY", zero-padded day, regardless of anything submitted.
	if post.Date != "August 07, 2026" {
		t.Errorf("Date = %q, want %q", post.Date, "August 07, 2026")
	}

	// The submitted fields persist unchanged.
	if post.Title != "Title" || post.Subtitle != "Subtitle" || post.Body != "<p>body</p>" || post.ImgURL != "https://example.com/a.jpg" {
		t.Errorf("Create() mangled submitted fields: %+v", post)
	}
	if post.AuthorID != 1 {
		t.Errorf("AuthorID = %d, want 1", post.AuthorID)
	}
}

func TestBlogUpdate_KeepsDateAndID(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo(posts))

	created, err := svc.Create(context.Background(), 1, "Before", "sub", "body", "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, "After", "new sub", "new body", "https://example.com/b.jpg")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.ID != created.ID {
		t.Errorf("Update() changed the id: %d → %d", created.ID, updated.ID)
	}
	if updated.Date != created.Date {
		t.Errorf("Update() changed the display date: %q → %q", created.Date, updated.Date)
	}
	if updated.Title != "After" || updated.Subtitle != "new sub" || updated.Body != "new body" || updated.ImgURL != "https://example.com/b.jpg" {
		t.Errorf("Update() result = %+v", updated)
	}

	// Re-reading yields the edited values.
	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Get() after update Title = %q, want %q", got.Title, "After")
	}
}

func TestBlogUpdate_NotFound(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo(posts))

	_, err := svc.Update(context.Background(), 42, "T", "S", "B", "https://example.com/a.jpg")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestBlogDelete(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo(posts))

	created, err := svc.Create(context.Background(), 1, "Doomed", "s", "b", "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List() after delete has %d posts, want 0", len(all))
	}

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestAddComment(t *testing.T) {
	posts := newFakePostRepo()
	comments := newFakeCommentRepo(posts)
	svc := newTestBlogService(posts, comments)

	post, err := svc.Create(context.Background(), 1, "Post", "s", "b", "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	comment, err := svc.AddComment(context.Background(), post.ID, 2, "  great read  ")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.Text != "great read" {
		t.Errorf("AddComment() Text = %q, want trimmed", comment.Text)
	}
	if comment.AuthorID != 2 || comment.PostID != post.ID {
		t.Errorf("AddComment() comment = %+v", comment)
	}

	list, err := svc.CommentsFor(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("CommentsFor() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("CommentsFor() returned %d comments, want 1", len(list))
	}
}

func TestAddComment_EmptyText(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo(posts))

	post, _ := svc.Create(context.Background(), 1, "Post", "s", "b", "https://example.com/a.jpg")

	_, err := svc.AddComment(context.Background(), post.ID, 2, "   ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AddComment() error = %v, want ErrValidation", err)
	}
}

func TestAddComment_MissingPost(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo(posts))

	_, err := svc.AddComment(context.Background(), 999, 2, "hello?")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("AddComment() error = %v, want ErrNotFound", err)
	}
}
