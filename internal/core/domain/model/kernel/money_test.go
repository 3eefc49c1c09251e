package kernel_test

import (
	"encoding/json"
	"testing"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	t.Run("should parse plain and fractional amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected string
		}{
			{"20", "20.00"},
			{"18.50", "18.50"},
			{" 7.5 ", "7.50"},
			{"-1.5", "-1.50"},
		}

		for _, tc := range testCases {
			m, err := kernel.MoneyFromString(tc.input)

			require.NoError(t, err, tc.input)
			assert.Equal(t, tc.expected, m.String())
		}
	})

	t.Run("should require a value", func(t *testing.T) {
		_, err := kernel.MoneyFromString("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non numeric input", func(t *testing.T) {
		for _, input := range []string{"twenty", "20,00", "1e", "$5"} {
			_, err := kernel.MoneyFromString(input)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid, input)
		}
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	total := kernel.MoneyFromCents(2000)
	collected := kernel.MoneyFromCents(1850)

	t.Run("should subtract exactly", func(t *testing.T) {
		diff := collected.Sub(total)

		assert.Equal(t, "-1.50", diff.String())
		assert.True(t, diff.IsNegative())
		assert.Equal(t, "1.50", diff.Abs().String())
	})

	t.Run("should compare by value", func(t *testing.T) {
		assert.True(t, kernel.NewMoney(decimal.RequireFromString("20")).Equal(total))
		assert.True(t, collected.LessThan(total))
		assert.False(t, total.LessThan(collected))
		assert.True(t, total.Add(collected).Equal(kernel.MoneyFromCents(3850)))
	})

	t.Run("should not drift like floats", func(t *testing.T) {
		sum := kernel.Money{}
		for range 10 {
			sum = sum.Add(kernel.MoneyFromCents(10))
		}
		assert.True(t, sum.Equal(kernel.MoneyFromCents(100)))
	})
}

func TestMoney_WithinEpsilon(t *testing.T) {
	expected := kernel.MoneyFromCents(2000)
	epsilon := kernel.MoneyFromCents(1)

	testCases := []struct {
		name      string
		collected string
		within    bool
	}{
		{"exact", "20.00", true},
		{"sub cent over", "20.001", true},
		{"sub cent under", "19.995", true},
		{"one cent over", "20.01", false},
		{"five over", "25.00", false},
		{"short", "18.50", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			collected, err := kernel.MoneyFromString(tc.collected)
			require.NoError(t, err)

			assert.Equal(t, tc.within, collected.WithinEpsilon(expected, epsilon))
		})
	}
}

func TestMoney_JSON(t *testing.T) {
	t.Run("should marshal with at least two decimals and never round", func(t *testing.T) {
		tests := map[string]string{
			"20":     `"20.00"`,
			"-1.5":   `"-1.50"`,
			"18.50":  `"18.50"`,
			"20.001": `"20.001"`,
		}
		for input, want := range tests {
			m, err := kernel.MoneyFromString(input)
			require.NoError(t, err)

			data, err := json.Marshal(m)

			require.NoError(t, err)
			assert.Equal(t, want, string(data), input)
		}
	})

	t.Run("should agree with String for whole cents", func(t *testing.T) {
		m := kernel.MoneyFromCents(2000)

		data, err := json.Marshal(m)

		require.NoError(t, err)
		assert.Equal(t, `"`+m.String()+`"`, string(data))
	})

	t.Run("should unmarshal strings and numbers", func(t *testing.T) {
		var fromString, fromNumber kernel.Money

		require.NoError(t, json.Unmarshal([]byte(`"18.50"`), &fromString))
		require.NoError(t, json.Unmarshal([]byte(`18.5`), &fromNumber))
		assert.True(t, fromString.Equal(fromNumber))
	})
}
