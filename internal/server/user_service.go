package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-writer/internal/config"
	"github.com/jonathan/proposal-writer/internal/db"
	"github.com/jonathan/proposal-writer/internal/types"
)

// UserService owns account registration, sign-in and password changes.
type UserService struct {
	store     UserStore
	passwords *config.PasswordConfig
}

// NewUserService creates a UserService.
func NewUserService(store UserStore, passwords *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwords: passwords}
}

// publicUser strips the password hash from a stored account.
func publicUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Emails are stored lower-cased and must be
// unique.
func (s *UserService) Register(ctx context.Context, req *types.SignUpRequest) (*types.User, error) {
	email := normalizeEmail(req.Email)

	taken, err := s.store.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateUser(ctx, strings.TrimSpace(req.FullName), email, hash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.GetUser(ctx, id)
}

// Login returns the account whose credentials match. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *types.SignInRequest) (*types.User, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if u == nil || !s.passwords.Matches(req.Password, u.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return publicUser(u), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.lookup(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwords.Matches(current, u.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwords.Hash(next)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// GetUser returns the account for userID.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return publicUser(u), nil
}

func (s *UserService) lookup(ctx context.Context, userID uuid.UUID) (*db.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return u, nil
}
