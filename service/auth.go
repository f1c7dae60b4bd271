package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/backend/auth"
	"github.com/fintrack/backend/db"
	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/fintrack/backend/validate"
)

// Authenticator registers users, logs them in and verifies their tokens.
type Authenticator struct {
	users  UserStore
	tokens *auth.TokenManager
	log    *logger.Logger
}

func NewAuthenticator(users UserStore, tokens *auth.TokenManager, log *logger.Logger) *Authenticator {
	return &Authenticator{
		users:  users,
		tokens: tokens,
		log:    log.WithComponent(logger.ComponentAuth),
	}
}

// Register creates an account and returns a token for it.
func (a *Authenticator) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	in, res := validate.Register(in)
	if !res.OK() {
		return nil, invalid(res.Errors)
	}
	log := a.log.For(ctx)

	existing, err := a.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.CreateUser(ctx, in.Name, in.Email, hash)
	if errors.Is(err, db.ErrUniqueViolation) {
		// Lost a race with a concurrent registration of the same email.
		return nil, ErrDuplicateUser
	}
	if err != nil {
		log.Error("failed to create user", "error", err)
		return nil, err
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	log.Info("user registered", "user_id", user.ID)
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Login exchanges credentials for a token. An unknown email and a wrong
// password fail identically.
func (a *Authenticator) Login(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error) {
	in, res := validate.Login(in)
	if !res.OK() {
		return nil, invalid(res.Errors)
	}

	user, err := a.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(in.Password, user.PasswordHash) {
		a.log.For(ctx).Warn("login rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Verify returns the user id a token was issued for.
func (a *Authenticator) Verify(token string) (int64, error) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return userID, nil
}
