package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/backend/models"
)

const categoryColumns = "id, name, type, user_id"

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var (
		c     models.Category
		owner sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &owner); err != nil {
		return c, err
	}
	if owner.Valid {
		c.UserID = &owner.Int64
	}
	return c, nil
}

// GetCategories returns the user's own categories and the global ones,
// ordered by name.
func (s *Storage) GetCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx,
		s.rebind("SELECT "+categoryColumns+" FROM categories WHERE user_id IS NULL OR user_id = ? ORDER BY name, id"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns a category visible to the user (own or global), or nil.
func (s *Storage) GetCategory(ctx context.Context, id, userID int64) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c, err := scanCategory(s.DB.QueryRowContext(ctx,
		s.rebind("SELECT "+categoryColumns+" FROM categories WHERE id = ? AND (user_id IS NULL OR user_id = ?)"),
		id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select category: %w", err)
	}
	return &c, nil
}

// CreateCategory stores a category owned by userID.
func (s *Storage) CreateCategory(ctx context.Context, userID int64, name string, typ models.Polarity) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c := &models.Category{Name: name, Type: typ, UserID: &userID}
	err := s.DB.QueryRowContext(ctx,
		s.rebind("INSERT INTO categories (name, type, user_id) VALUES (?, ?, ?) RETURNING id"),
		name, string(typ), userID,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", classify(err))
	}
	return c, nil
}

// UpdateCategory renames or retypes a category owned by userID. It reports
// false when no such owned category exists.
func (s *Storage) UpdateCategory(ctx context.Context, id, userID int64, name string, typ models.Polarity) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		s.rebind("UPDATE categories SET name = ?, type = ? WHERE id = ? AND user_id = ?"),
		name, string(typ), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	return n > 0, nil
}

// CountCategoryUsage returns how many transactions, of any user, reference
// the category.
func (s *Storage) CountCategoryUsage(ctx context.Context, id int64) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	err := s.DB.QueryRowContext(ctx,
		s.rebind("SELECT COUNT(*) FROM transactions WHERE category_id = ?"),
		id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category usage: %w", err)
	}
	return count, nil
}

// DeleteCategory removes a category owned by userID and reports whether a
// row was deleted. The foreign key on transactions rejects the delete with
// ErrForeignKeyViolation if the category is still referenced, so a reference
// inserted after a usage check cannot be orphaned.
func (s *Storage) DeleteCategory(ctx context.Context, id, userID int64) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		s.rebind("DELETE FROM categories WHERE id = ? AND user_id = ?"),
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}
