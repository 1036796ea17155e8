package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/repository"
)

// dateLayout is the display-date format stamped on a post at creation,
// e.g. "August 29, 2026". It is stored as a string and never re-derived.
const dateLayout = "January 02, 2006"

// BlogService handles posts and their comments.
type BlogService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger

	// now is stubbed in tests to pin the stamped date.
	now func() time.Time
}

// NewBlogService creates a BlogService.
func NewBlogService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		posts:    posts,
		comments: comments,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns all posts, newest first.
func (s *BlogService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns one post by id, or apperror.ErrNotFound.
func (s *BlogService) Get(ctx context.Context, id int64) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Create stamps today's display date on the submitted fields and persists
// the post. Whatever the client may have submitted for the date is ignored;
// the stamp is always server-side.
func (s *BlogService) Create(ctx context.Context, authorID int64, title, subtitle, body, imgURL string) (*model.Post, error) {
	post := &model.Post{
		AuthorID: authorID,
		Title:    strings.TrimSpace(title),
		Subtitle: strings.TrimSpace(subtitle),
		Date:     s.now().Format(dateLayout),
		Body:     body,
		ImgURL:   strings.TrimSpace(imgURL),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("title", post.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("id", post.ID),
		slog.String("title", post.Title),
		slog.Int64("authorID", authorID),
	)

	return post, nil
}

// Update overwrites the mutable fields of an existing post (title,
// subtitle, body, image URL). The id, author, and display date stay as they
// were. Fetch-then-update keeps "not found" detection in one place and
// returns the full updated record.
func (s *BlogService) Update(ctx context.Context, id int64, title, subtitle, body, imgURL string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(title)
	post.Subtitle = strings.TrimSpace(subtitle)
	post.Body = body
	post.ImgURL = strings.TrimSpace(imgURL)

	if err := s.posts.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.Int64("id", post.ID))

	return post, nil
}

// Delete removes a post and its comments.
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post deleted", slog.Int64("id", id))
	return nil
}

// AddComment appends a comment by the given user to the given post.
// Commenting on a post that doesn't exist returns apperror.ErrNotFound.
func (s *BlogService) AddComment(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment must not be empty")
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.Int64("postID", postID),
		slog.Int64("authorID", authorID),
	)

	return comment, nil
}

// CommentsFor returns a post's comments, oldest first.
func (s *BlogService) CommentsFor(ctx context.Context, postID int64) ([]model.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}
