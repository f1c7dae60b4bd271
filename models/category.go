package models

type Category struct {
	ID     int64    `json:"id" example:"1"`
	Name   string   `json:"name" example:"Salary"`
	Type   Polarity `json:"type" example:"income"`
	UserID *int64   `json:"user_id" example:"1"`
}

// Global reports whether the category is shared by every user.
func (c Category) Global() bool {
	return c.UserID == nil
}
