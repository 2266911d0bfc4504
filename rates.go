package kest

import (
	"context"
	"fmt"
	"iter"

	"github.com/etnz/kest/date"
	"github.com/shopspring/decimal"
)

// RateSource provides daily EUR per USD reference rates.
//
// Implementations return the published rates for a calendar range, days
// without publication (weekends, holidays) are simply missing.
type RateSource interface {
	FetchRates(ctx context.Context, from, to date.Date) (map[date.Date]decimal.Decimal, error)
}

// RateTable holds the EUR per USD rates of a run.
//
// It is built once and never modified afterward.
type RateTable struct {
	span  date.Range
	rates date.History[decimal.Decimal]
}

// NewRateTable fetches the rates for span from src.
//
// A failed fetch, or one returning no usable rate, is an ErrRateSource.
func NewRateTable(ctx context.Context, src RateSource, span date.Range) (*RateTable, error) {
	rates, err := src.FetchRates(ctx, span.From, span.To)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching rates for %s: %w", ErrRateSource, span, err)
	}
	return NewRateTableFrom(rates, span)
}

// NewRateTableFrom builds a table from already known rates.
//
// Rates after the end of span are ignored, rates before its start are kept
// since they serve lookups at the very beginning of the span.
func NewRateTableFrom(rates map[date.Date]decimal.Decimal, span date.Range) (*RateTable, error) {
	if span.To.Before(span.From) {
		return nil, fmt.Errorf("%w: empty range %s", ErrRateSource, span)
	}
	t := &RateTable{span: span}
	for on, rate := range rates {
		if on.After(span.To) {
			continue
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: rate %s on %s is not positive", ErrRateSource, rate, on)
		}
		t.rates.Append(on, rate)
	}
	if t.rates.Len() == 0 {
		return nil, fmt.Errorf("%w: no rates published for %s", ErrRateSource, span)
	}
	return t, nil
}

// RateOn returns the rate to use for a transaction on a given day: the rate
// published that day, or the last one published before.
func (t *RateTable) RateOn(on date.Date) (decimal.Decimal, error) {
	_, rate, err := t.RateAsOf(on)
	return rate, err
}

// RateAsOf is like RateOn but also returns the publication day of the rate.
func (t *RateTable) RateAsOf(on date.Date) (date.Date, decimal.Decimal, error) {
	if on.After(t.span.To) {
		return date.Date{}, decimal.Zero, fmt.Errorf("%w: %s is after the end of the rate table %s", ErrRateUnavailable, on, t.span)
	}
	day, rate, ok := t.rates.ValueAsOf(on)
	if !ok {
		first, _ := t.rates.Earliest()
		return date.Date{}, decimal.Zero, fmt.Errorf("%w: %s is before the first published rate %s", ErrRateUnavailable, on, first)
	}
	return day, rate, nil
}

// Range returns the range the table was built for.
func (t *RateTable) Range() date.Range { return t.span }

// Len returns the number of published rates.
func (t *RateTable) Len() int { return t.rates.Len() }

// Rates iterates over the published rates in chronological order.
func (t *RateTable) Rates() iter.Seq2[date.Date, decimal.Decimal] { return t.rates.Values() }
