// Package service contains the business logic layer.
//
// Handlers parse HTTP and render pages; services enforce the rules and talk
// to the repositories. Services accept primitives and return domain errors
// from internal/apperror; they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/repository"
)

// Sentinel auth failures. Handlers match these with errors.Is to choose the
// flash notice; their messages double as the user-visible text.
var (
	ErrDuplicateEmail = &apperror.AppError{
		Err:     apperror.ErrConflict,
		Message: "You have already registered, try logging in instead!",
	}
	ErrUnknownEmail   = apperror.Unauthorized("We couldn't find your email in our database. Please try again.")
	ErrBadPassword    = apperror.Unauthorized("Your password is incorrect. Please try again.")
)

// AuthService handles registration, login, and current-user lookup.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// A duplicate email returns ErrDuplicateEmail and creates nothing. The
// existence check and the insert are not one atomic step, but the UNIQUE
// constraint on users.email backs the check; a race loses with the same
// error, never with a second row.
//
// The first account ever registered becomes the admin (seeded by the
// repository inside the insert transaction).
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
		slog.Bool("admin", user.IsAdmin),
	)

	return user, nil
}

// Login authenticates an email/password pair.
//
// An unknown email returns ErrUnknownEmail; a wrong password returns
// ErrBadPassword. The bcrypt check runs exactly once.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, ErrBadPassword
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return user, nil
}

// GetUserByID returns the user for the given id. Used by the session
// middleware on every request to resolve the cookie into a user row.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}
	return user, nil
}
