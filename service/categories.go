package service

import (
	"context"
	"errors"

	"github.com/fintrack/backend/db"
	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/fintrack/backend/validate"
)

// CategoryRegistry manages the categories a user can file transactions under.
type CategoryRegistry struct {
	store CategoryStore
	log   *logger.Logger
}

func NewCategoryRegistry(store CategoryStore, log *logger.Logger) *CategoryRegistry {
	return &CategoryRegistry{store: store, log: log.WithComponent(logger.ComponentCategory)}
}

// List returns the user's categories together with the global ones.
func (r *CategoryRegistry) List(ctx context.Context, userID int64) ([]models.Category, error) {
	return r.store.GetCategories(ctx, userID)
}

// Get returns a category the user owns or a global one.
func (r *CategoryRegistry) Get(ctx context.Context, userID, id int64) (*models.Category, error) {
	c, err := r.store.GetCategory(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (r *CategoryRegistry) Create(ctx context.Context, userID int64, in models.CategoryInput) (*models.Category, error) {
	in, res := validate.Category(in)
	if !res.OK() {
		return nil, invalid(res.Errors)
	}

	c, err := r.store.CreateCategory(ctx, userID, in.Name, models.Polarity(in.Type))
	if err != nil {
		r.log.For(ctx).Error("failed to create category", "user_id", userID, "error", err)
		return nil, err
	}
	r.log.For(ctx).Info("category created", "user_id", userID, "category_id", c.ID)
	return c, nil
}

// Update changes a category the user owns. Global categories and other
// users' categories are reported as not found.
func (r *CategoryRegistry) Update(ctx context.Context, userID, id int64, in models.CategoryInput) (*models.Category, error) {
	in, res := validate.Category(in)
	if !res.OK() {
		return nil, invalid(res.Errors)
	}

	ok, err := r.store.UpdateCategory(ctx, id, userID, in.Name, models.Polarity(in.Type))
	if err != nil {
		r.log.For(ctx).Error("failed to update category", "user_id", userID, "category_id", id, "error", err)
		return nil, err
	}
	if !ok {
		return nil, ErrCategoryNotFound
	}
	r.log.For(ctx).Info("category updated", "user_id", userID, "category_id", id)
	return &models.Category{ID: id, Name: in.Name, Type: models.Polarity(in.Type), UserID: &userID}, nil
}

// Delete removes a category the user owns. A category referenced by any
// transaction, whoever owns it, cannot be deleted.
func (r *CategoryRegistry) Delete(ctx context.Context, userID, id int64) error {
	log := r.log.For(ctx)

	inUse, err := r.store.CountCategoryUsage(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	ok, err := r.store.DeleteCategory(ctx, id, userID)
	if errors.Is(err, db.ErrForeignKeyViolation) {
		// A transaction referenced the category after the usage check.
		return ErrCategoryInUse
	}
	if err != nil {
		log.Error("failed to delete category", "user_id", userID, "category_id", id, "error", err)
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	log.Info("category deleted", "user_id", userID, "category_id", id)
	return nil
}
