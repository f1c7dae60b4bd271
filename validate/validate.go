// Package validate holds the input checks run before every mutating
// operation. Each function normalises its input and returns the cleaned
// value together with a Result listing every rejected field.
package validate

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fintrack/backend/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	LocationBody  = "body"
	LocationQuery = "query"
)

var rules = newValidator()

// maxAmount is the exclusive bound of a NUMERIC(12,2) column.
var maxAmount = decimal.New(1, 10)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Result is the outcome of a validation: OK when no field was rejected.
type Result struct {
	Errors []models.FieldError
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(location, field, message string) {
	r.Errors = append(r.Errors, models.FieldError{Field: field, Message: message, Location: location})
}

func (r *Result) addStruct(location string, s any) {
	err := rules.Struct(s)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		r.add(location, "", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		r.add(location, fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

type registerRules struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register checks a registration request. Name is trimmed and email is
// normalised to lower case before the rules run.
func Register(in models.RegisterInput) (models.RegisterInput, Result) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	var res Result
	res.addStruct(LocationBody, registerRules{Name: in.Name, Email: in.Email, Password: in.Password})
	if len(in.Password) > MaxPasswordBytes {
		res.add(LocationBody, "password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	return in, res
}

type loginRules struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks a login request.
func Login(in models.LoginInput) (models.LoginInput, Result) {
	in.Email = NormalizeEmail(in.Email)

	var res Result
	res.addStruct(LocationBody, loginRules{Email: in.Email, Password: in.Password})
	return in, res
}

type categoryRules struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=income expense"`
}

// Category checks a category create or update.
func Category(in models.CategoryInput) (models.CategoryInput, Result) {
	in.Name = strings.TrimSpace(in.Name)

	var res Result
	res.addStruct(LocationBody, categoryRules{Name: in.Name, Type: in.Type})
	return in, res
}

type transactionRules struct {
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
}

// Transaction checks a transaction create or update and converts the loosely
// typed fields into their domain types.
func Transaction(in models.TransactionInput) (models.TransactionFields, Result) {
	fields := models.TransactionFields{
		Description: strings.TrimSpace(in.Description),
		Type:        models.Polarity(in.Type),
	}

	var res Result
	switch amount, ok := parseAmount(in.Amount); {
	case !ok:
		res.add(LocationBody, "amount", "must be a number")
	case amount.Abs().GreaterThanOrEqual(maxAmount):
		res.add(LocationBody, "amount", "is out of range")
	default:
		fields.Amount = amount
	}

	res.addStruct(LocationBody, transactionRules{Description: fields.Description, Type: in.Type})

	if id, ok := parseID(in.CategoryID); ok {
		fields.CategoryID = id
	} else {
		res.add(LocationBody, "category_id", "must be a positive integer")
	}

	if date, err := ParseISODate(in.Date); err == nil {
		fields.Date = date
	} else {
		res.add(LocationBody, "date", "must be an ISO 8601 date")
	}

	// Keep the field order stable regardless of which check produced the error.
	sortByField(res.Errors, "amount", "description", "category_id", "date", "type")
	return fields, res
}

// TransactionFilter checks the optional query parameters of a ledger listing.
func TransactionFilter(typ, categoryID, from, to string) (models.TransactionFilter, Result) {
	var (
		filter models.TransactionFilter
		res    Result
	)

	if typ != "" {
		if p := models.Polarity(typ); p.Valid() {
			filter.Type = p
		} else {
			res.add(LocationQuery, "type", "must be one of: income, expense")
		}
	}
	if categoryID != "" {
		if id, ok := parseID(categoryID); ok {
			filter.CategoryID = id
		} else {
			res.add(LocationQuery, "category_id", "must be a positive integer")
		}
	}
	if from != "" {
		if d, err := ParseISODate(from); err == nil {
			filter.From = &d
		} else {
			res.add(LocationQuery, "from", "must be an ISO 8601 date")
		}
	}
	if to != "" {
		if d, err := ParseISODate(to); err == nil {
			filter.To = &d
		} else {
			res.add(LocationQuery, "to", "must be an ISO 8601 date")
		}
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(filter.From.Time) {
		res.add(LocationQuery, "to", "must not be before from")
	}
	return filter, res
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var isoLayouts = []string{
	models.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseISODate accepts a calendar date or an ISO 8601 timestamp and returns
// the calendar day it names, in the timestamp's own offset.
func ParseISODate(s string) (models.Date, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return models.NewDate(t), nil
		}
		lastErr = err
	}
	return models.Date{}, lastErr
}

// ParseID parses a path or query identifier.
func ParseID(s string) (int64, bool) {
	return parseID(s)
}

func parseAmount(v any) (decimal.Decimal, bool) {
	switch a := v.(type) {
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(a), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(a))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func parseID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) || id < 1 || id >= math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}

func sortByField(errs []models.FieldError, order ...string) {
	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}
	slices.SortStableFunc(errs, func(a, b models.FieldError) int {
		return rank[a.Field] - rank[b.Field]
	})
}
