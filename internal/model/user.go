// Package model defines the plain data records shared by the repository,
// service, and handler layers.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt output, never the plaintext. It carries the
// json:"-" tag so it can never leak into an encoded response by accident.
//
// IsAdmin is an explicit role flag. The first account ever registered is
// seeded as the admin inside the registration transaction; every later
// account gets false. Post management routes are gated on this flag.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Name         string    `json:"name"      db:"name"`
	IsAdmin      bool      `json:"isAdmin"   db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
