package models

import "time"

type AuthResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  User   `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Category deleted"`
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field    string `json:"field" example:"email"`
	Message  string `json:"message" example:"must be a valid email address"`
	Location string `json:"location" example:"body"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type StatusResponse struct {
	Status    string    `json:"status" example:"OK"`
	Timestamp time.Time `json:"timestamp"`
}
