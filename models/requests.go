package models

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Name     string `json:"name" example:"Ada"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret"`
}

// CategoryInput is the body of category create and update.
type CategoryInput struct {
	Name string `json:"name" example:"Salary"`
	Type string `json:"type" example:"income"`
}

// TransactionInput is the body of transaction create and update. Amount and
// category_id are accepted as JSON numbers or numeric strings.
type TransactionInput struct {
	Amount      any    `json:"amount" swaggertype:"number" example:"1000"`
	Description string `json:"description" example:"pay"`
	CategoryID  any    `json:"category_id" swaggertype:"integer" example:"1"`
	Date        string `json:"date" example:"2024-01-15"`
	Type        string `json:"type" example:"income"`
}

// TransactionQuery holds the optional filters of GET /api/transactions.
type TransactionQuery struct {
	Type       string `form:"type"`
	CategoryID string `form:"category_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}
