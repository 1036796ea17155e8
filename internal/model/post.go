package model

import "time"

// Post is a blog entry.
//
// Date is a display string ("January 02, 2006" layout), stamped once when the
// post is created and stored verbatim; it is never re-derived from
// CreatedAt, so editing a post keeps its original byline date.
//
// AuthorName is denormalized from the users table by the repository's list
// and get queries; it is not a column on posts.
type Post struct {
	ID         int64     `json:"id"        db:"id"`
	AuthorID   int64     `json:"authorId"  db:"author_id"`
	AuthorName string    `json:"authorName"`
	Title      string    `json:"title"     db:"title"`
	Subtitle   string    `json:"subtitle"  db:"subtitle"`
	Date       string    `json:"date"      db:"date"`
	Body       string    `json:"body"      db:"body"`
	ImgURL     string    `json:"imgUrl"    db:"img_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
