package service

import (
	"context"

	"github.com/fintrack/backend/models"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CategoryStore persists categories. Reads see the user's own rows and the
// global ones; writes only touch rows the user owns.
type CategoryStore interface {
	GetCategories(ctx context.Context, userID int64) ([]models.Category, error)
	GetCategory(ctx context.Context, id, userID int64) (*models.Category, error)
	CreateCategory(ctx context.Context, userID int64, name string, typ models.Polarity) (*models.Category, error)
	UpdateCategory(ctx context.Context, id, userID int64, name string, typ models.Polarity) (bool, error)
	CountCategoryUsage(ctx context.Context, id int64) (int, error)
	DeleteCategory(ctx context.Context, id, userID int64) (bool, error)
}

// TransactionStore persists ledger entries scoped to their owner.
type TransactionStore interface {
	GetTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, userID int64, f models.TransactionFields) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id, userID int64, f models.TransactionFields) (bool, error)
	DeleteTransaction(ctx context.Context, id, userID int64) (bool, error)
}

// StatsStore computes aggregates over a user's ledger.
type StatsStore interface {
	MonthlyTotals(ctx context.Context, userID int64) ([]models.MonthlyTotal, error)
	CategoryTotals(ctx context.Context, userID int64) ([]models.CategoryTotal, error)
}
