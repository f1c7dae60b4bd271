package models

import "github.com/shopspring/decimal"

// MonthlyTotal is one calendar month bucket of a user's ledger.
type MonthlyTotal struct {
	Month         string          `json:"month" example:"2024-01"`
	TotalIncome   decimal.Decimal `json:"total_income" swaggertype:"number" example:"1000"`
	TotalExpenses decimal.Decimal `json:"total_expenses" swaggertype:"number" example:"250.75"`
}

// CategoryTotal is the sum of a user's transactions in one category.
type CategoryTotal struct {
	Name  string          `json:"name" example:"Food"`
	Type  Polarity        `json:"type" example:"expense"`
	Total decimal.Decimal `json:"total" swaggertype:"number" example:"250.75"`
}

type Stats struct {
	Monthly    []MonthlyTotal  `json:"monthly"`
	ByCategory []CategoryTotal `json:"byCategory"`
}
