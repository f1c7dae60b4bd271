package service

import (
	"context"
	"errors"

	"github.com/fintrack/backend/db"
	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/fintrack/backend/validate"
)

// AmountPlaces is the number of decimal places amounts are stored with.
const AmountPlaces = 2

// Ledger manages a user's income and expense entries.
type Ledger struct {
	store TransactionStore
	log   *logger.Logger
}

func NewLedger(store TransactionStore, log *logger.Logger) *Ledger {
	return &Ledger{store: store, log: log.WithComponent(logger.ComponentLedger)}
}

// List returns the user's transactions, newest first. Empty query fields do
// not filter.
func (l *Ledger) List(ctx context.Context, userID int64, q models.TransactionQuery) ([]models.Transaction, error) {
	filter, res := validate.TransactionFilter(q.Type, q.CategoryID, q.From, q.To)
	if !res.OK() {
		return nil, invalid(res.Errors)
	}
	return l.store.GetTransactions(ctx, userID, filter)
}

func (l *Ledger) Get(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	tx, err := l.store.GetTransaction(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

// Create records a transaction and returns it joined with its category.
func (l *Ledger) Create(ctx context.Context, userID int64, in models.TransactionInput) (*models.Transaction, error) {
	fields, err := transactionFields(in)
	if err != nil {
		return nil, err
	}

	tx, err := l.store.CreateTransaction(ctx, userID, fields)
	if errors.Is(err, db.ErrForeignKeyViolation) {
		return nil, unknownCategory()
	}
	if err != nil {
		l.log.For(ctx).Error("failed to create transaction", "user_id", userID, "error", err)
		return nil, err
	}
	l.log.For(ctx).Info("transaction created", "user_id", userID, "transaction_id", tx.ID)
	return tx, nil
}

// Update overwrites a transaction the user owns.
func (l *Ledger) Update(ctx context.Context, userID, id int64, in models.TransactionInput) (*models.Transaction, error) {
	fields, err := transactionFields(in)
	if err != nil {
		return nil, err
	}

	ok, err := l.store.UpdateTransaction(ctx, id, userID, fields)
	if errors.Is(err, db.ErrForeignKeyViolation) {
		return nil, unknownCategory()
	}
	if err != nil {
		l.log.For(ctx).Error("failed to update transaction", "user_id", userID, "transaction_id", id, "error", err)
		return nil, err
	}
	if !ok {
		return nil, ErrTransactionNotFound
	}
	l.log.For(ctx).Info("transaction updated", "user_id", userID, "transaction_id", id)
	return l.Get(ctx, userID, id)
}

func (l *Ledger) Delete(ctx context.Context, userID, id int64) error {
	ok, err := l.store.DeleteTransaction(ctx, id, userID)
	if err != nil {
		l.log.For(ctx).Error("failed to delete transaction", "user_id", userID, "transaction_id", id, "error", err)
		return err
	}
	if !ok {
		return ErrTransactionNotFound
	}
	l.log.For(ctx).Info("transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

func transactionFields(in models.TransactionInput) (models.TransactionFields, error) {
	fields, res := validate.Transaction(in)
	if !res.OK() {
		return fields, invalid(res.Errors)
	}
	fields.Amount = fields.Amount.Round(AmountPlaces)
	return fields, nil
}

func unknownCategory() error {
	return invalid([]models.FieldError{{
		Field:    "category_id",
		Message:  "category does not exist",
		Location: validate.LocationBody,
	}})
}
