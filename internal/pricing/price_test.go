package pricing

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw   string
		cents int64
		err   bool
	}{
		{raw: "1250000", cents: 125000000},
		{raw: "€ 1,250,000", cents: 125000000},
		{raw: "99.99", cents: 9999},
		{raw: "1000000000", cents: 100000000000},
		{raw: "1000000000.01", err: true},
		{raw: "0", err: true},
		{raw: "", err: true},
		{raw: "call for price", err: true},
		{raw: "1.2.3", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cents, err := ParseAmount(tt.raw)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cents, cents)
		})
	}
}

func TestParse_Currency(t *testing.T) {
	p, err := Parse("1250000", "")
	require.NoError(t, err)
	assert.Equal(t, Price{Cents: 125000000, Currency: "EUR"}, p)
	assert.Equal(t, int64(1250000), p.Units())

	p, err = Parse("500", "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)

	_, err = Parse("500", "CHF")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "EUR 1250000", FormatDisplay("EUR", "1250000"))
	assert.Equal(t, "EUR 900", FormatDisplay("", " 900 "))
	assert.Equal(t, "GBP 1,200,000", FormatDisplay("GBP", "1,200,000"))
}

func TestParseDisplay(t *testing.T) {
	n, ok := ParseDisplay("EUR 1250000")
	require.True(t, ok)
	assert.Equal(t, int64(1250000), n)

	n, ok = ParseDisplay("GBP 1,200,000")
	require.True(t, ok)
	assert.Equal(t, int64(1200000), n)

	_, ok = ParseDisplay("price on request")
	assert.False(t, ok)
}

func TestPortfolioValue(t *testing.T) {
	boats := []models.Boat{
		{ID: "a", PriceCents: i64Ptr(10000000), Currency: strPtr("EUR"), Price: strPtr("EUR 100000")},
		{ID: "b", Price: strPtr("EUR 250,000")},
		{ID: "c"},
	}

	assert.Equal(t, int64(350000), PortfolioValue(boats))
	assert.Zero(t, PortfolioValue(nil))
}

func TestPortfolioValue_StructuredAmountWins(t *testing.T) {
	boats := []models.Boat{
		{PriceCents: i64Ptr(125000000), Price: strPtr("EUR 999")},
	}

	assert.Equal(t, int64(1250000), PortfolioValue(boats))
}
