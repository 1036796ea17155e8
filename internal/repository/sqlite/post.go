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

// PostRepo implements repository.PostRepository on the shared pool.
type PostRepo struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.PostRepository = (*PostRepo)(nil)

// Create inserts a new post. The caller (service layer) has already stamped
// the display date; this layer only assigns ID and CreatedAt.
func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, subtitle, date, body, img_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImgURL,
		post.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: posts.title") {
			return apperror.Conflict("post", "title already taken")
		}
		return fmt.Errorf("sqlite: creating post %q: %w", post.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading post insert id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a single post with its author's name joined in.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post

	err := r.conn.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.AuthorID,
		&p.AuthorName,
		&p.Title,
		&p.Subtitle,
		&p.Date,
		&p.Body,
		&p.ImgURL,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &p, nil
}

// List returns all posts, newest first, with author names joined in.
// The front page shows every post, so there is no pagination here.
func (r *PostRepo) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle,
			&p.Date, &p.Body, &p.ImgURL, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update overwrites the mutable fields of a post: title, subtitle, body,
// and image URL. The id, author, display date, and created_at never change.
//
// RowsAffected detects the missing-row case without a separate SELECT.
func (r *PostRepo) Update(ctx context.Context, post *model.Post) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, subtitle = ?, body = ?, img_url = ?
		 WHERE id = ?`,
		post.Title,
		post.Subtitle,
		post.Body,
		post.ImgURL,
		post.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: posts.title") {
			return apperror.Conflict("post", "title already taken")
		}
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post and its comments in one transaction. The comments
// must go first: the foreign key from comments to posts is not cascading,
// and a failure between the two statements must not leave orphans.
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning post delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting comments for post %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post delete: %w", err)
	}

	return nil
}
