package validate

import (
	"strings"
	"testing"

	"github.com/fintrack/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(res Result) []string {
	var out []string
	for _, e := range res.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestRegister(t *testing.T) {
	in, res := Register(models.RegisterInput{Name: "  A ", Email: " A@X.com ", Password: "secret"})
	require.True(t, res.OK(), "unexpected errors: %+v", res.Errors)
	assert.Equal(t, "A", in.Name)
	assert.Equal(t, "a@x.com", in.Email)

	_, res = Register(models.RegisterInput{Name: "   ", Email: "not-an-email", Password: "short"})
	require.False(t, res.OK())
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields(res))
	for _, e := range res.Errors {
		assert.Equal(t, LocationBody, e.Location)
		if e.Field == "password" {
			assert.Equal(t, "must be at least 6 characters", e.Message)
		}
	}
}

func TestRegisterRejectsPasswordBcryptCannotHash(t *testing.T) {
	_, res := Register(models.RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("p", 80)})
	require.Equal(t, []string{"password"}, fields(res))
	assert.Equal(t, "must be at most 72 bytes", res.Errors[0].Message)

	_, res = Register(models.RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("p", MaxPasswordBytes)})
	assert.True(t, res.OK())
}

func TestLogin(t *testing.T) {
	in, res := Login(models.LoginInput{Email: "A@x.COM", Password: "x"})
	require.True(t, res.OK())
	assert.Equal(t, "a@x.com", in.Email)

	_, res = Login(models.LoginInput{Email: "a@x.com"})
	assert.Equal(t, []string{"password"}, fields(res))

	_, res = Login(models.LoginInput{Email: "nope", Password: "secret"})
	assert.Equal(t, []string{"email"}, fields(res))
}

func TestCategory(t *testing.T) {
	in, res := Category(models.CategoryInput{Name: " Salary ", Type: "income"})
	require.True(t, res.OK())
	assert.Equal(t, "Salary", in.Name)

	_, res = Category(models.CategoryInput{Name: "Gift", Type: "transfer"})
	require.Equal(t, []string{"type"}, fields(res))
	assert.Equal(t, "must be one of: income, expense", res.Errors[0].Message)

	_, res = Category(models.CategoryInput{})
	assert.ElementsMatch(t, []string{"name", "type"}, fields(res))
}

func TestTransaction(t *testing.T) {
	got, res := Transaction(models.TransactionInput{
		Amount:      float64(1000),
		Description: " pay ",
		CategoryID:  float64(3),
		Date:        "2024-01-15",
		Type:        "income",
	})
	require.True(t, res.OK(), "unexpected errors: %+v", res.Errors)
	assert.Equal(t, "1000", got.Amount.String())
	assert.Equal(t, "pay", got.Description)
	assert.Equal(t, int64(3), got.CategoryID)
	assert.Equal(t, "2024-01-15", got.Date.String())
	assert.Equal(t, models.Income, got.Type)
}

func TestTransactionAcceptsNumericStrings(t *testing.T) {
	got, res := Transaction(models.TransactionInput{
		Amount:      "12.34",
		Description: "coffee",
		CategoryID:  "5",
		Date:        "2024-03-02T18:30:00Z",
		Type:        "expense",
	})
	require.True(t, res.OK(), "unexpected errors: %+v", res.Errors)
	assert.Equal(t, "12.34", got.Amount.String())
	assert.Equal(t, int64(5), got.CategoryID)
	assert.Equal(t, "2024-03-02", got.Date.String())
}

func TestTransactionRejectsEveryBadField(t *testing.T) {
	_, res := Transaction(models.TransactionInput{
		Amount:      "lots",
		Description: "  ",
		CategoryID:  1.5,
		Date:        "yesterday",
		Type:        "gift",
	})
	assert.Equal(t, []string{"amount", "description", "category_id", "date", "type"}, fields(res))

	_, res = Transaction(models.TransactionInput{Description: "x", Date: "2024-01-01", Type: "income"})
	assert.Equal(t, []string{"amount", "category_id"}, fields(res), "missing amount and category are rejected")

	_, res = Transaction(models.TransactionInput{Amount: "10000000000", Description: "x", CategoryID: 1.0, Date: "2024-01-01", Type: "income"})
	require.Equal(t, []string{"amount"}, fields(res))
	assert.Equal(t, "is out of range", res.Errors[0].Message)

	_, res = Transaction(models.TransactionInput{Amount: 1.0, Description: "x", CategoryID: float64(1 << 63), Date: "2024-01-01", Type: "income"})
	require.Equal(t, []string{"category_id"}, fields(res), "2^63 does not fit an int64")
	assert.Equal(t, "must be a positive integer", res.Errors[0].Message)

	_, res = Transaction(models.TransactionInput{Amount: true, Description: "x", CategoryID: "0", Date: "2024-01-01", Type: "income"})
	assert.Equal(t, []string{"amount", "category_id"}, fields(res))
}

func TestParseISODate(t *testing.T) {
	for in, want := range map[string]string{
		"2024-01-15":                "2024-01-15",
		"2024-01-15T23:30:00+05:00": "2024-01-15",
		"2024-01-15T10:00:00.000Z":  "2024-01-15",
		"2024-01-15T10:00:00":       "2024-01-15",
		"2024-01-15T10:00":          "2024-01-15",
	} {
		d, err := ParseISODate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}

	for _, in := range []string{"", "15-01-2024", "2024-13-01", "2024-02-30"} {
		_, err := ParseISODate(in)
		assert.Error(t, err, in)
	}
}

func TestTransactionFilter(t *testing.T) {
	f, res := TransactionFilter("", "", "", "")
	require.True(t, res.OK())
	assert.Equal(t, models.TransactionFilter{}, f)

	f, res = TransactionFilter("expense", "4", "2024-01-01", "2024-01-31")
	require.True(t, res.OK())
	assert.Equal(t, models.Expense, f.Type)
	assert.Equal(t, int64(4), f.CategoryID)
	assert.Equal(t, "2024-01-01", f.From.String())
	assert.Equal(t, "2024-01-31", f.To.String())

	_, res = TransactionFilter("both", "x", "soon", "later")
	assert.Equal(t, []string{"type", "category_id", "from", "to"}, fields(res))
	for _, e := range res.Errors {
		assert.Equal(t, LocationQuery, e.Location)
	}

	_, res = TransactionFilter("", "", "2024-02-01", "2024-01-01")
	assert.Equal(t, []string{"to"}, fields(res))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("12")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	for _, in := range []string{"", "abc", "-1", "0", "1.5"} {
		_, ok := ParseID(in)
		assert.False(t, ok, in)
	}
}
