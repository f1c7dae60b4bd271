package service

import (
	"context"

	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"golang.org/x/sync/errgroup"
)

// Aggregator computes dashboard statistics over a user's ledger.
type Aggregator struct {
	store StatsStore
	log   *logger.Logger
}

func NewAggregator(store StatsStore, log *logger.Logger) *Aggregator {
	return &Aggregator{store: store, log: log.WithComponent(logger.ComponentStats)}
}

// Monthly returns income and expense totals for the twelve most recent months
// that have transactions, newest first.
func (a *Aggregator) Monthly(ctx context.Context, userID int64) ([]models.MonthlyTotal, error) {
	return a.store.MonthlyTotals(ctx, userID)
}

// ByCategory returns per-category totals, largest first. Uncategorised
// transactions are not counted.
func (a *Aggregator) ByCategory(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	return a.store.CategoryTotals(ctx, userID)
}

// Stats runs both aggregations concurrently.
func (a *Aggregator) Stats(ctx context.Context, userID int64) (*models.Stats, error) {
	var stats models.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monthly, err := a.Monthly(gctx, userID)
		stats.Monthly = monthly
		return err
	})
	g.Go(func() error {
		byCategory, err := a.ByCategory(gctx, userID)
		stats.ByCategory = byCategory
		return err
	})
	if err := g.Wait(); err != nil {
		a.log.For(ctx).Error("failed to compute stats", "user_id", userID, "error", err)
		return nil, err
	}
	return &stats, nil
}
