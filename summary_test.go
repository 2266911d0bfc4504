package kest

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	records := []AuditRecord{
		{Kind: KindLapse, CostBasis: EUR(900)},
		{Kind: KindSell, RealizedPL: Some(EUR(50))},
		{Kind: KindSell, RealizedPL: Some(EUR(-20))},
		{Kind: KindSell, RealizedPL: Some(EUR(0))},
	}
	s := Summarize(records)
	if !s.Gains.Equal(EUR(50)) {
		t.Errorf("Gains = %s, want 50", s.Gains.Decimal())
	}
	if !s.Losses.Equal(EUR(20)) {
		t.Errorf("Losses = %s, want 20", s.Losses.Decimal())
	}
	if !s.Realized.Equal(EUR(30)) {
		t.Errorf("Realized = %s, want 30", s.Realized.Decimal())
	}
	if s.Lapses != 1 || s.Sells != 3 {
		t.Errorf("Lapses, Sells = %d, %d want 1, 3", s.Lapses, s.Sells)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if !s.Gains.IsZero() || !s.Losses.IsZero() || s.Gains.Currency() != "EUR" {
		t.Errorf("Summarize(nil) = %+v, want zero EUR totals", s)
	}
}

func TestReport_Kennzahlen(t *testing.T) {
	events := []Event{
		lapse(t, day(time.March, 15), 100, 10, 0.9),
		sell(t, day(time.June, 3), 40, 12, 0, 0.92),  // +81.60
		sell(t, day(time.July, 1), 30, 8, 0, 0.925),  // 30*7.4 - 270 = -48
	}
	res, err := Process(events, Position{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	r := NewReport("ASDF", 2024, res)
	if got := r.Summary.Kennzahl994(); !got.Equal(EUR(81.60)) {
		t.Errorf("Kennzahl994() = %s, want 81.60", got.Decimal())
	}
	if got := r.Summary.Kennzahl892(); !got.Equal(EUR(48)) {
		t.Errorf("Kennzahl892() = %s, want 48", got.Decimal())
	}
	if !r.Summary.Realized.Equal(res.RealizedPL) {
		t.Errorf("Summary.Realized = %s, want %s", r.Summary.Realized.Decimal(), res.RealizedPL.Decimal())
	}
}
