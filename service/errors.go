package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fintrack/backend/models"
)

var (
	ErrDuplicateUser       = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCategoryNotFound    = errors.New("category not found or not owned by user")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryInUse       = errors.New("category is used by transactions")
)

// ValidationError lists every input field an operation rejected.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(fields []models.FieldError) error {
	return &ValidationError{Fields: fields}
}
