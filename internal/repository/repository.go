// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/inkwell/internal/model"
)

// UserRepository reads and writes user accounts.
//
// Create assigns the ID and CreatedAt on the passed struct. The very first
// user inserted into an empty table is seeded with the admin flag, in the
// same transaction as the insert.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// PostRepository reads and writes blog posts. List and GetByID populate
// AuthorName from the users table. Delete removes the post's comments in the
// same transaction, keeping the foreign keys satisfied.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository appends and reads comments. There is no update or
// delete: comments are immutable once posted.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}
