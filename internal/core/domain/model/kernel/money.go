package kernel

import (
	"strings"

	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the restaurant's single currency.
// Arithmetic never goes through float64; discrepancies may be negative.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal amount.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// MoneyFromString parses operator or API input such as "20", "18.50" or " 7.005 ".
// Blank input yields a ValueIsRequiredError, anything non-numeric a ValueIsInvalidError.
func MoneyFromString(s string) (Money, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Money{}, errs.NewValueIsRequiredError("amount")
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return Money{amount: amount}, nil
}

// Decimal exposes the underlying value for persistence adapters.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs()}
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares by value, so 20 and 20.00 are equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// WithinEpsilon reports whether |m - other| is strictly below epsilon.
func (m Money) WithinEpsilon(other, epsilon Money) bool {
	return m.Sub(other).Abs().LessThan(epsilon)
}

// String renders the amount with two decimal places, e.g. "-1.50".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON writes the amount as a JSON string with at least two decimal places.
// Sub-cent digits are kept, so "20.001" is not rounded to "20.00".
func (m Money) MarshalJSON() ([]byte, error) {
	places := int32(2)
	if exp := -m.amount.Exponent(); exp > places {
		places = exp
	}
	return []byte(`"` + m.amount.StringFixed(places) + `"`), nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	parsed, err := MoneyFromString(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
