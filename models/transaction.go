package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts and totals go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Polarity says whether money comes in or goes out.
type Polarity string

const (
	Income  Polarity = "income"
	Expense Polarity = "expense"
)

// Valid reports whether p is one of the two known polarities.
func (p Polarity) Valid() bool {
	return p == Income || p == Expense
}

type Transaction struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"number" example:"1000.50"`
	Description  string          `json:"description" example:"pay"`
	CategoryID   *int64          `json:"category_id"`
	Date         Date            `json:"date" swaggertype:"string" example:"2024-01-15"`
	Type         Polarity        `json:"type" example:"income"`
	CategoryName *string         `json:"category_name"`
	CategoryType *Polarity       `json:"category_type"`
}

// TransactionFields are the validated, typed values of a create or update.
type TransactionFields struct {
	Amount      decimal.Decimal
	Description string
	CategoryID  int64
	Date        Date
	Type        Polarity
}

// TransactionFilter narrows a ledger listing. Zero values mean "no filter".
type TransactionFilter struct {
	Type       Polarity
	CategoryID int64
	From       *Date
	To         *Date
}
