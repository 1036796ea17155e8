package model

import "time"

// Comment is a short text attached to exactly one Post by exactly one User.
// Comments are append-only: the application never edits or deletes them.
//
// AuthorName and AuthorEmail are joined in from the users table when
// comments are read (the email feeds avatar rendering in templates).
type Comment struct {
	ID          int64     `json:"id"       db:"id"`
	PostID      int64     `json:"postId"   db:"post_id"`
	AuthorID    int64     `json:"authorId" db:"author_id"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"-"`
	Text        string    `json:"text"      db:"text"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
