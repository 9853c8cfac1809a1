// Package pricing handles boat asking prices: parsing user input into a
// structured amount, the legacy "<CURRENCY> <amount>" display string, and
// portfolio valuation.
package pricing

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
)

const DefaultCurrency = "EUR"

// MaxAmount is the largest accepted price in whole currency units.
const MaxAmount = 1_000_000_000

var Currencies = []string{"EUR", "USD", "GBP"}

var (
	ErrInvalidAmount       = errors.New("price must be a number greater than 0 and at most 1,000,000,000")
	ErrUnsupportedCurrency = errors.New("currency must be one of EUR, USD, GBP")
)

var (
	nonNumeric   = regexp.MustCompile(`[^\d.]`)
	displayDigit = regexp.MustCompile(`[\d,]+`)
)

// Price is an amount in minor units (cents) plus an ISO currency code.
type Price struct {
	Cents    int64
	Currency string
}

// Units is the amount in whole currency units, truncated.
func (p Price) Units() int64 { return p.Cents / 100 }

// NormalizeCurrency upper-cases code and checks it against Currencies. An
// empty code means DefaultCurrency.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	for _, c := range Currencies {
		if c == code {
			return code, nil
		}
	}
	return "", ErrUnsupportedCurrency
}

// ParseAmount strips everything but digits and dots from raw and returns the
// amount in cents. "€ 1,250,000" parses as 125000000.
func ParseAmount(raw string) (int64, error) {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > MaxAmount {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(f * 100)), nil
}

// Parse validates both parts of a price.
func Parse(raw, currency string) (Price, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return Price{}, err
	}
	cents, err := ParseAmount(raw)
	if err != nil {
		return Price{}, err
	}
	return Price{Cents: cents, Currency: code}, nil
}

// FormatDisplay builds the stored display string from the amount exactly as
// the user typed it.
func FormatDisplay(currency, raw string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + " " + strings.TrimSpace(raw)
}

// ParseDisplay recovers a whole-unit amount from a display string by joining
// every run of digits and commas and dropping the commas. Rows written before
// structured prices existed only carry this form.
func ParseDisplay(display string) (int64, bool) {
	runs := displayDigit.FindAllString(display, -1)
	if len(runs) == 0 {
		return 0, false
	}
	digits := strings.ReplaceAll(strings.Join(runs, ""), ",", "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PortfolioValue sums boat prices in whole units. Currencies are not
// converted. Boats without any price are skipped.
func PortfolioValue(boats []models.Boat) int64 {
	var cents int64
	for _, b := range boats {
		switch {
		case b.PriceCents != nil:
			cents += *b.PriceCents
		case b.Price != nil:
			if units, ok := ParseDisplay(*b.Price); ok {
				cents += units * 100
			}
		}
	}
	return cents / 100
}
