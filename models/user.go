package models

type User struct {
	ID           int64  `json:"id" example:"1"`
	Name         string `json:"name" example:"Ada"`
	Email        string `json:"email" example:"ada@example.com"`
	PasswordHash string `json:"-"`
}
