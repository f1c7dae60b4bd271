package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/backend/models"
)

// CreateUser stores a user whose password has already been hashed. A taken
// email is reported as ErrUniqueViolation.
func (s *Storage) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user := &models.User{Name: name, Email: email, PasswordHash: passwordHash}
	err := s.DB.QueryRowContext(ctx,
		s.rebind("INSERT INTO users (name, email, password) VALUES (?, ?, ?) RETURNING id"),
		name, email, passwordHash,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", classify(err))
	}
	return user, nil
}

// GetUserByEmail returns nil without error when no user has that email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.DB.QueryRowContext(ctx,
		s.rebind("SELECT id, name, email, password FROM users WHERE email = ?"),
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &u, nil
}
