package kest

import (
	"testing"
	"time"

	"github.com/etnz/kest/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// D is a helper for test to create a decimal from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// day is a helper for test to create a date in 2024.
func day(month time.Month, d int) date.Date { return date.New(2024, month, d) }

func lapse(t *testing.T, on date.Date, qty float64, usd, rate float64) Lapse {
	t.Helper()
	l, err := NewLapse(on, Q(qty), USD(usd), D(rate))
	if err != nil {
		t.Fatalf("NewLapse() error = %v", err)
	}
	return l
}

func sell(t *testing.T, on date.Date, qty float64, usd, fees, rate float64) Sell {
	t.Helper()
	s, err := NewSell(on, Q(qty), USD(usd), USD(fees), D(rate))
	if err != nil {
		t.Fatalf("NewSell() error = %v", err)
	}
	return s
}
