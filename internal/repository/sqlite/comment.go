package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/repository"
)

// CommentRepo implements repository.CommentRepository on the shared pool.
type CommentRepo struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.CommentRepository = (*CommentRepo)(nil)

// Create appends a comment to a post. The foreign keys reject a comment
// naming a post or user that doesn't exist; that constraint failure is
// translated to NotFound so the handler returns 404 rather than 500.
func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, text, created_at)
		 VALUES (?, ?, ?, ?)`,
		comment.PostID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return apperror.NotFound("post", comment.PostID)
		}
		return fmt.Errorf("sqlite: creating comment on post %d: %w", comment.PostID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading comment insert id: %w", err)
	}
	comment.ID = id

	return nil
}

// ListByPost returns a post's comments, oldest first, with the author's
// name and email joined in (the email feeds avatar rendering).
func (r *CommentRepo) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, u.name, u.email, c.text, c.created_at
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.AuthorEmail,
			&c.Text, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}
