package kest

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/kest/date"
	"github.com/shopspring/decimal"
)

func TestNewLapse(t *testing.T) {
	l, err := NewLapse(day(time.March, 15), Q(100), USD(10), D(0.9))
	if err != nil {
		t.Fatalf("NewLapse() error = %v", err)
	}
	if l.What() != KindLapse {
		t.Errorf("What() = %v, want %v", l.What(), KindLapse)
	}
	if !l.PriceEUR().Equal(EUR(9)) {
		t.Errorf("PriceEUR() = %s, want 9", l.PriceEUR().Decimal())
	}
	if !l.FeesEUR().IsZero() || l.FeesEUR().Currency() != "EUR" {
		t.Errorf("FeesEUR() = %v, want 0 EUR", l.FeesEUR())
	}
}

func TestNewSell(t *testing.T) {
	s, err := NewSell(day(time.June, 3), Q(40), USD(12), USD(4.95), D(0.92))
	if err != nil {
		t.Fatalf("NewSell() error = %v", err)
	}
	if s.What() != KindSell {
		t.Errorf("What() = %v, want %v", s.What(), KindSell)
	}
	if !s.PriceEUR().Equal(EUR(11.04)) {
		t.Errorf("PriceEUR() = %s, want 11.04", s.PriceEUR().Decimal())
	}
	if !s.FeesEUR().Equal(EUR(4.554)) {
		t.Errorf("FeesEUR() = %s, want 4.554", s.FeesEUR().Decimal())
	}
}

func TestNewEvent_Invalid(t *testing.T) {
	on := day(time.June, 3)
	tests := []struct {
		name string
		make func() error
	}{
		{"zero quantity", func() error { _, err := NewLapse(on, Q(0), USD(10), D(0.9)); return err }},
		{"negative quantity", func() error { _, err := NewSell(on, Q(-1), USD(10), USD(0), D(0.9)); return err }},
		{"negative price", func() error { _, err := NewLapse(on, Q(1), USD(-10), D(0.9)); return err }},
		{"negative fees", func() error { _, err := NewSell(on, Q(1), USD(10), USD(-1), D(0.9)); return err }},
		{"price in EUR", func() error { _, err := NewLapse(on, Q(1), EUR(10), D(0.9)); return err }},
		{"zero rate", func() error { _, err := NewLapse(on, Q(1), USD(10), decimal.Zero); return err }},
		{"no date", func() error { _, err := NewLapse(date.Date{}, Q(1), USD(10), D(0.9)); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.make(); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("error = %v, want %v", err, ErrInvalidEvent)
			}
		})
	}
}

func TestNormalizer(t *testing.T) {
	table, err := NewRateTableFrom(january().rates, date.Range{From: day(time.January, 1), To: day(time.January, 31)})
	if err != nil {
		t.Fatalf("NewRateTableFrom() error = %v", err)
	}
	n := Normalizer{Rates: table}

	// a saturday lapse uses friday's rate.
	l, err := n.Lapse(day(time.January, 6), Q(10), USD(100))
	if err != nil {
		t.Fatalf("Lapse() error = %v", err)
	}
	if !l.Rate().Equal(D(0.914)) || !l.PriceEUR().Equal(EUR(91.4)) {
		t.Errorf("Lapse() rate = %v price = %v, want 0.914 and 91.4", l.Rate(), l.PriceEUR().Decimal())
	}

	s, err := n.Sell(day(time.January, 3), Q(5), USD(100), USD(1))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if !s.FeesEUR().Equal(EUR(0.915)) {
		t.Errorf("Sell() fees = %v, want 0.915", s.FeesEUR().Decimal())
	}

	if _, err := n.Sell(day(time.January, 1), Q(5), USD(100), USD(1)); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("Sell() before first rate error = %v, want %v", err, ErrRateUnavailable)
	}
}
