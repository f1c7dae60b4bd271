package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fintrack/backend/models"
)

const transactionSelect = `SELECT t.id, t.user_id, t.amount, t.description, t.category_id, t.date, t.type, c.name, c.type
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id`

func scanTransaction(row interface{ Scan(...any) error }) (models.Transaction, error) {
	var (
		tx           models.Transaction
		categoryID   sql.NullInt64
		categoryName sql.NullString
		categoryType sql.NullString
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Description, &categoryID, &tx.Date, &tx.Type, &categoryName, &categoryType)
	if err != nil {
		return tx, err
	}
	if categoryID.Valid {
		tx.CategoryID = &categoryID.Int64
	}
	if categoryName.Valid {
		tx.CategoryName = &categoryName.String
	}
	if categoryType.Valid {
		p := models.Polarity(categoryType.String)
		tx.CategoryType = &p
	}
	return tx, nil
}

// GetTransactions lists the user's transactions, most recent date first.
func (s *Storage) GetTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	where := []string{"t.user_id = ?"}
	args := []any{userID}
	if filter.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.CategoryID > 0 {
		where = append(where, "t.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.From != nil {
		where = append(where, "t.date >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, "t.date <= ?")
		args = append(args, *filter.To)
	}

	query := transactionSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY t.date DESC, t.id DESC"
	rows, err := s.DB.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// GetTransaction returns one of the user's transactions, or nil.
func (s *Storage) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := scanTransaction(s.DB.QueryRowContext(ctx,
		s.rebind(transactionSelect+" WHERE t.id = ? AND t.user_id = ?"),
		id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select transaction: %w", err)
	}
	return &tx, nil
}

// CreateTransaction stores a transaction for userID and returns it with its
// category joined in. An unknown category is reported as
// ErrForeignKeyViolation.
func (s *Storage) CreateTransaction(ctx context.Context, userID int64, f models.TransactionFields) (*models.Transaction, error) {
	insertCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var id int64
	err := s.DB.QueryRowContext(insertCtx,
		s.rebind("INSERT INTO transactions (user_id, amount, description, category_id, date, type) VALUES (?, ?, ?, ?, ?, ?) RETURNING id"),
		userID, f.Amount, f.Description, f.CategoryID, f.Date, string(f.Type),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", classify(err))
	}
	cancel()

	tx, err := s.GetTransaction(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction %d vanished after insert", id)
	}
	return tx, nil
}

// UpdateTransaction overwrites every field of a transaction owned by userID.
// It reports false when the user has no such transaction.
func (s *Storage) UpdateTransaction(ctx context.Context, id, userID int64, f models.TransactionFields) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		s.rebind("UPDATE transactions SET amount = ?, description = ?, category_id = ?, date = ?, type = ? WHERE id = ? AND user_id = ?"),
		f.Amount, f.Description, f.CategoryID, f.Date, string(f.Type), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	return n > 0, nil
}

// DeleteTransaction removes a transaction owned by userID and reports
// whether it existed.
func (s *Storage) DeleteTransaction(ctx context.Context, id, userID int64) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		s.rebind("DELETE FROM transactions WHERE id = ? AND user_id = ?"),
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	return n > 0, nil
}
