package kest

import (
	"fmt"
	"slices"

	"github.com/etnz/kest/date"
)

// Position is the running state of a single security: the number of shares
// held and their moving average unit cost (PMAVG) in EUR.
//
// When the quantity drops to zero the average is kept as is, it is not used
// again until the next acquisition recomputes it.
type Position struct {
	Quantity Quantity
	Average  Money
}

// Engine is the moving average cost basis state machine of one security.
//
// It owns its Position, one Engine must be used per security.
type Engine struct {
	pos      Position
	realized Money
	last     date.Date
	records  []AuditRecord
}

// NewEngine returns an Engine starting from a position carried forward from
// a previous year, use the zero Position for a fresh one.
func NewEngine(start Position) (*Engine, error) {
	if start.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: starting quantity %s is negative", ErrInvalidPosition, start.Quantity)
	}
	if start.Average.IsNegative() {
		return nil, fmt.Errorf("%w: starting average cost %s is negative", ErrInvalidPosition, start.Average.Decimal())
	}
	switch start.Average.Currency() {
	case "":
		start.Average = M(start.Average.Decimal(), "EUR")
	case "EUR":
	default:
		return nil, fmt.Errorf("%w: average cost in %s, want EUR", ErrInvalidPosition, start.Average.Currency())
	}
	return &Engine{pos: start, realized: M(0, "EUR")}, nil
}

// Position returns the current position.
func (e *Engine) Position() Position { return e.pos }

// Realized returns the sum of realized profits and losses so far.
func (e *Engine) Realized() Money { return e.realized }

// Records returns the audit records emitted so far.
func (e *Engine) Records() []AuditRecord { return slices.Clone(e.records) }

// Apply processes a single event and returns its audit record.
//
// On error the engine state is left untouched and no record is emitted.
func (e *Engine) Apply(ev Event) (AuditRecord, error) {
	if ev.When().Before(e.last) {
		return AuditRecord{}, fmt.Errorf("%w: %s on %s after an event on %s", ErrOutOfOrder, ev.What(), ev.When(), e.last)
	}

	rec := AuditRecord{
		Date:           ev.When(),
		Kind:           ev.What(),
		Quantity:       ev.Shares(),
		PriceUSD:       ev.PriceUSD(),
		PriceEUR:       ev.PriceEUR(),
		Rate:           ev.Rate(),
		FeesUSD:        ev.FeesUSD(),
		FeesEUR:        ev.FeesEUR(),
		QuantityBefore: e.pos.Quantity,
		AverageBefore:  e.pos.Average,
	}

	next := e.pos
	realized := e.realized
	switch v := ev.(type) {
	case Lapse:
		value := v.PriceEUR().Mul(v.Shares())
		total := e.pos.Average.Mul(e.pos.Quantity).Add(value)
		next.Quantity = e.pos.Quantity.Add(v.Shares())
		next.Average = total.Div(next.Quantity)
		rec.CostBasis = value

	case Sell:
		next.Quantity = e.pos.Quantity.Sub(v.Shares())
		if next.Quantity.IsNegative() {
			return AuditRecord{}, fmt.Errorf("%w: on %s selling %s shares while holding %s", ErrOversell, v.When(), v.Shares(), e.pos.Quantity)
		}
		// Fees are not deducted from the proceeds.
		proceeds := v.PriceEUR().Mul(v.Shares())
		cost := e.pos.Average.Mul(v.Shares())
		pl := proceeds.Sub(cost)
		realized = realized.Add(pl)
		rec.Proceeds = Some(proceeds)
		rec.CostBasis = cost
		rec.RealizedPL = Some(pl)

	default:
		return AuditRecord{}, fmt.Errorf("%w: unsupported event type %T", ErrInvalidEvent, ev)
	}

	rec.QuantityAfter = next.Quantity
	rec.AverageAfter = next.Average

	e.pos, e.realized, e.last = next, realized, ev.When()
	e.records = append(e.records, rec)
	return rec, nil
}

// Result is the outcome of processing all the events of a security.
type Result struct {
	Start      Position
	End        Position
	RealizedPL Money         // signed sum of all realized profits and losses
	Records    []AuditRecord // one per event, in processing order
}

// SortEvents returns a copy of events sorted by date, events of the same
// day keep their relative order.
func SortEvents(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int { return a.When().Compare(b.When()) })
	return sorted
}

// Process runs all events, in date order, through a new Engine starting at
// start.
//
// It is all or nothing: on error no partial result is returned.
func Process(events []Event, start Position) (*Result, error) {
	e, err := NewEngine(start)
	if err != nil {
		return nil, err
	}
	initial := e.pos
	for _, ev := range SortEvents(events) {
		if _, err := e.Apply(ev); err != nil {
			return nil, err
		}
	}
	return &Result{
		Start:      initial,
		End:        e.pos,
		RealizedPL: e.realized,
		Records:    e.records,
	}, nil
}
