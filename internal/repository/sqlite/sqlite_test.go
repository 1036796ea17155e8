package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/inkwell/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database.
// The database is empty (migrations applied, no rows) and is discarded
// when the test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser registers a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email, name string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakefa",
		Name:         name,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

// createTestPost inserts a post authored by the given user.
func createTestPost(t *testing.T, db *DB, authorID int64, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "a subtitle",
		Date:     "August 29, 2026",
		Body:     "<p>body text</p>",
		ImgURL:   "https://example.com/header.jpg",
	}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post %q: %v", title, err)
	}
	return post
}
