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

// UserRepo implements repository.UserRepository on the shared pool.
type UserRepo struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new user.
//
// The insert and the "is this the first user" check run in one transaction:
// the first row ever written to an empty users table gets the admin flag,
// and two racing registrations cannot both observe an empty table.
//
// A duplicate email surfaces the UNIQUE constraint, translated to an
// ErrConflict-class error so the service layer can tell it apart from a
// real database failure.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning user insert: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: counting users: %w", err)
	}
	user.IsAdmin = count == 0
	user.CreatedAt = time.Now()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.IsAdmin,
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user", "email already registered")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user insert id: %w", err)
	}
	user.ID = id

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user insert: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, is_admin, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by their unique email.
// Returns apperror.ErrNotFound if no account has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, is_admin, created_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("no user with email %s", email),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}

	return &u, nil
}
