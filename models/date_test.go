package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{"time from postgres", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "2024-01-15"},
		{"plain text", "2024-02-29", "2024-02-29"},
		{"rfc3339 text", "2024-03-01T00:00:00Z", "2024-03-01"},
		{"bytes", []byte("2023-12-31"), "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("15/01/2024"))
	assert.Error(t, d.Scan("2024"))
}

func TestDateMonthAndValue(t *testing.T) {
	d := MustDate("2024-01-15")
	assert.Equal(t, "2024-01", d.Month())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", v)
}

func TestNewDateKeepsLocalDay(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*3600)
	local := time.Date(2024, 6, 1, 2, 0, 0, 0, zone)
	assert.Equal(t, "2024-06-01", NewDate(local).String())
}

func TestTransactionJSON(t *testing.T) {
	categoryID := int64(3)
	name := "Salary"
	polarity := Income
	tx := Transaction{
		ID:           1,
		UserID:       2,
		Amount:       decimal.RequireFromString("1000.50"),
		Description:  "pay",
		CategoryID:   &categoryID,
		Date:         MustDate("2024-01-15"),
		Type:         Income,
		CategoryName: &name,
		CategoryType: &polarity,
	}

	b, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, 1000.5, decoded["amount"], "amount must be a JSON number")
	assert.Equal(t, "2024-01-15", decoded["date"])
	assert.Equal(t, "Salary", decoded["category_name"])
	assert.Equal(t, "income", decoded["category_type"])

	var back Transaction
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Amount.Equal(tx.Amount))
	assert.Equal(t, tx.Date.String(), back.Date.String())
}

func TestPolarityValid(t *testing.T) {
	assert.True(t, Income.Valid())
	assert.True(t, Expense.Valid())
	assert.False(t, Polarity("transfer").Valid())
	assert.False(t, Polarity("").Valid())
}

func TestUserHidesHash(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Name: "A", Email: "a@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.JSONEq(t, `{"id":1,"name":"A","email":"a@x.com"}`, string(b))
}
