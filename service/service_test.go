package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fintrack/backend/auth"
	"github.com/fintrack/backend/db"
	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

type fixture struct {
	store      *db.Storage
	auth       *Authenticator
	categories *CategoryRegistry
	ledger     *Ledger
	stats      *Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := db.NewStorage(context.Background(), db.Options{Driver: db.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logger.Discard()
	return &fixture{
		store:      store,
		auth:       NewAuthenticator(store, auth.NewTokenManager(testSecret), log),
		categories: NewCategoryRegistry(store, log),
		ledger:     NewLedger(store, log),
		stats:      NewAggregator(store, log),
	}
}

func (f *fixture) register(t *testing.T, email string) int64 {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), models.RegisterInput{Name: "Test", Email: email, Password: "secret"})
	require.NoError(t, err)
	return resp.User.ID
}

func (f *fixture) globalCategoryID(t *testing.T, userID int64, name string) int64 {
	t.Helper()
	list, err := f.categories.List(context.Background(), userID)
	require.NoError(t, err)
	for _, c := range list {
		if c.Name == name && c.Global() {
			return c.ID
		}
	}
	t.Fatalf("global category %q not found", name)
	return 0
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	var out []string
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, models.RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	userID, err := f.auth.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	login, err := f.auth.Login(ctx, models.LoginInput{Email: "ADA@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, models.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, models.RegisterInput{Name: "B", Email: "a@x.com", Password: "another"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), models.RegisterInput{Email: "bad", Password: "123"})
	assert.ElementsMatch(t, []string{"name", "email", "password"}, validationFields(t, err))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com")

	_, unknown := f.auth.Login(ctx, models.LoginInput{Email: "nobody@x.com", Password: "secret"})
	_, wrong := f.auth.Login(ctx, models.LoginInput{Email: "a@x.com", Password: "wrong-password"})
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	require.ErrorIs(t, wrong, ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	f := newFixture(t)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	token, err := auth.NewTokenManager(testSecret).WithClock(func() time.Time { return issued }).Issue(1)
	require.NoError(t, err)

	_, err = f.auth.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.auth.Verify("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	bob := f.register(t, "bob@x.com")

	c, err := f.categories.Create(ctx, alice, models.CategoryInput{Name: " Books ", Type: "expense"})
	require.NoError(t, err)
	assert.Equal(t, "Books", c.Name)

	_, err = f.categories.Update(ctx, bob, c.ID, models.CategoryInput{Name: "Mine", Type: "expense"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = f.categories.Get(ctx, bob, c.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	updated, err := f.categories.Update(ctx, alice, c.ID, models.CategoryInput{Name: "Novels", Type: "expense"})
	require.NoError(t, err)
	assert.Equal(t, "Novels", updated.Name)

	assert.ErrorIs(t, f.categories.Delete(ctx, bob, c.ID), ErrCategoryNotFound)
	require.NoError(t, f.categories.Delete(ctx, alice, c.ID))
	assert.ErrorIs(t, f.categories.Delete(ctx, alice, c.ID), ErrCategoryNotFound)
}

func TestCategoryCreateRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@x.com")
	_, err := f.categories.Create(context.Background(), alice, models.CategoryInput{Name: "Gift", Type: "transfer"})
	assert.Equal(t, []string{"type"}, validationFields(t, err))
}

func TestCategoryDeleteBlockedByAnyUsersTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	bob := f.register(t, "bob@x.com")

	c, err := f.categories.Create(ctx, alice, models.CategoryInput{Name: "Books", Type: "expense"})
	require.NoError(t, err)
	_, err = f.ledger.Create(ctx, bob, models.TransactionInput{
		Amount: 10.0, Description: "novel", CategoryID: float64(c.ID), Date: "2024-01-01", Type: "expense",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.categories.Delete(ctx, alice, c.ID), ErrCategoryInUse)
}

// racingCategoryStore reports no usage and then has the delete rejected by
// the foreign key, as when a transaction is inserted between the two calls.
type racingCategoryStore struct {
	CategoryStore
}

func (racingCategoryStore) CountCategoryUsage(context.Context, int64) (int, error) { return 0, nil }

func (racingCategoryStore) DeleteCategory(context.Context, int64, int64) (bool, error) {
	return false, fmt.Errorf("delete category: %w", db.ErrForeignKeyViolation)
}

func TestCategoryDeleteRaceReportsInUse(t *testing.T) {
	r := NewCategoryRegistry(racingCategoryStore{}, logger.Discard())
	assert.ErrorIs(t, r.Delete(context.Background(), 1, 1), ErrCategoryInUse)
}

func TestLedgerLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	bob := f.register(t, "bob@x.com")
	food := f.globalCategoryID(t, alice, "Food")

	tx, err := f.ledger.Create(ctx, alice, models.TransactionInput{
		Amount: "12.345", Description: "lunch", CategoryID: float64(food), Date: "2024-01-05T12:00:00Z", Type: "expense",
	})
	require.NoError(t, err)
	assert.Equal(t, "12.35", tx.Amount.String(), "amounts are rounded to cents")
	assert.Equal(t, "2024-01-05", tx.Date.String())
	require.NotNil(t, tx.CategoryName)
	assert.Equal(t, "Food", *tx.CategoryName)

	update := models.TransactionInput{Amount: 1.0, Description: "hijack", CategoryID: float64(food), Date: "2024-01-05", Type: "expense"}
	_, err = f.ledger.Update(ctx, bob, tx.ID, update)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	unchanged, err := f.ledger.Get(ctx, alice, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", unchanged.Description)

	update.Description = "dinner"
	updated, err := f.ledger.Update(ctx, alice, tx.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "dinner", updated.Description)
	assert.Equal(t, "1", updated.Amount.String())

	assert.ErrorIs(t, f.ledger.Delete(ctx, bob, tx.ID), ErrTransactionNotFound)
	require.NoError(t, f.ledger.Delete(ctx, alice, tx.ID))
	_, err = f.ledger.Get(ctx, alice, tx.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestLedgerUnknownCategory(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@x.com")
	_, err := f.ledger.Create(context.Background(), alice, models.TransactionInput{
		Amount: 1.0, Description: "x", CategoryID: float64(424242), Date: "2024-01-01", Type: "expense",
	})
	assert.Equal(t, []string{"category_id"}, validationFields(t, err))
}

func TestLedgerListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	food := f.globalCategoryID(t, alice, "Food")
	salary := f.globalCategoryID(t, alice, "Salary")

	for _, in := range []models.TransactionInput{
		{Amount: 1000.0, Description: "pay", CategoryID: float64(salary), Date: "2024-01-15", Type: "income"},
		{Amount: 30.0, Description: "food", CategoryID: float64(food), Date: "2024-02-01", Type: "expense"},
	} {
		_, err := f.ledger.Create(ctx, alice, in)
		require.NoError(t, err)
	}

	all, err := f.ledger.List(ctx, alice, models.TransactionQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "food", all[0].Description)

	income, err := f.ledger.List(ctx, alice, models.TransactionQuery{Type: "income"})
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "pay", income[0].Description)

	_, err = f.ledger.List(ctx, alice, models.TransactionQuery{From: "someday"})
	assert.Equal(t, []string{"from"}, validationFields(t, err))
}

func TestStatsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	food := f.globalCategoryID(t, alice, "Food")
	salary := f.globalCategoryID(t, alice, "Salary")

	_, err := f.ledger.Create(ctx, alice, models.TransactionInput{Amount: 1000.0, Description: "pay", CategoryID: float64(salary), Date: "2024-01-15", Type: "income"})
	require.NoError(t, err)
	_, err = f.ledger.Create(ctx, alice, models.TransactionInput{Amount: 250.75, Description: "groceries", CategoryID: float64(food), Date: "2024-01-20", Type: "expense"})
	require.NoError(t, err)

	stats, err := f.stats.Stats(ctx, alice)
	require.NoError(t, err)
	require.Len(t, stats.Monthly, 1)
	assert.Equal(t, "2024-01", stats.Monthly[0].Month)
	assert.Equal(t, "1000", stats.Monthly[0].TotalIncome.String())
	assert.Equal(t, "250.75", stats.Monthly[0].TotalExpenses.String())
	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Salary", stats.ByCategory[0].Name)
	assert.Equal(t, "Food", stats.ByCategory[1].Name)
}

type failingStatsStore struct{}

var errStoreDown = errors.New("store down")

func (failingStatsStore) MonthlyTotals(context.Context, int64) ([]models.MonthlyTotal, error) {
	return nil, errStoreDown
}

func (failingStatsStore) CategoryTotals(context.Context, int64) ([]models.CategoryTotal, error) {
	return []models.CategoryTotal{}, nil
}

func TestStatsPropagatesStoreFailure(t *testing.T) {
	a := NewAggregator(failingStatsStore{}, logger.Discard())
	_, err := a.Stats(context.Background(), 1)
	assert.ErrorIs(t, err, errStoreDown)
}
