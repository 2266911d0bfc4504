package kest

import (
	"fmt"

	"github.com/etnz/kest/date"
	"github.com/shopspring/decimal"
)

// EventKind identifies the two economic events the engine knows about.
type EventKind int

const (
	// KindLapse is the vesting of an equity award, an acquisition at fair market value.
	KindLapse EventKind = iota
	// KindSell is a disposal through the brokerage account.
	KindSell
)

func (k EventKind) String() string {
	switch k {
	case KindLapse:
		return "LAPSE"
	case KindSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event is either a Lapse or a Sell.
//
// Events are immutable, they are built by NewLapse, NewSell or a Normalizer
// that reject malformed data.
type Event interface {
	When() date.Date       // When returns the day of the event.
	What() EventKind       // What returns the kind of event.
	Shares() Quantity      // Shares returns the number of shares acquired or disposed of.
	PriceUSD() Money       // PriceUSD returns the unit price in USD.
	PriceEUR() Money       // PriceEUR returns the unit price converted in EUR.
	Rate() decimal.Decimal // Rate returns the EUR per USD rate used for the conversion.
	FeesUSD() Money        // FeesUSD returns the fees in USD.
	FeesEUR() Money        // FeesEUR returns the fees converted in EUR.

	isEvent()
}

// event holds the fields common to all events.
type event struct {
	on       date.Date
	quantity Quantity
	priceUSD Money
	priceEUR Money
	rate     decimal.Decimal
	feesUSD  Money
	feesEUR  Money
}

func (e event) When() date.Date       { return e.on }
func (e event) Shares() Quantity      { return e.quantity }
func (e event) PriceUSD() Money       { return e.priceUSD }
func (e event) PriceEUR() Money       { return e.priceEUR }
func (e event) Rate() decimal.Decimal { return e.rate }
func (e event) FeesUSD() Money        { return e.feesUSD }
func (e event) FeesEUR() Money        { return e.feesEUR }
func (e event) isEvent()              {}

// newEvent validates and converts the common fields.
func newEvent(kind EventKind, on date.Date, quantity Quantity, priceUSD, feesUSD Money, rate decimal.Decimal) (event, error) {
	if on.IsZero() {
		return event{}, fmt.Errorf("%w: %s without a date", ErrInvalidEvent, kind)
	}
	if !quantity.IsPositive() {
		return event{}, fmt.Errorf("%w: %s on %s quantity must be positive, got %s", ErrInvalidEvent, kind, on, quantity)
	}
	if priceUSD.IsNegative() {
		return event{}, fmt.Errorf("%w: %s on %s price must not be negative, got %s", ErrInvalidEvent, kind, on, priceUSD.Decimal())
	}
	if feesUSD.IsNegative() {
		return event{}, fmt.Errorf("%w: %s on %s fees must not be negative, got %s", ErrInvalidEvent, kind, on, feesUSD.Decimal())
	}
	for _, m := range []Money{priceUSD, feesUSD} {
		if c := m.Currency(); c != "" && c != "USD" {
			return event{}, fmt.Errorf("%w: %s on %s amount in %s, want USD", ErrInvalidEvent, kind, on, c)
		}
	}
	if !rate.IsPositive() {
		return event{}, fmt.Errorf("%w: %s on %s exchange rate must be positive, got %s", ErrInvalidEvent, kind, on, rate)
	}
	priceUSD, feesUSD = M(priceUSD.Decimal(), "USD"), M(feesUSD.Decimal(), "USD")
	return event{
		on:       on,
		quantity: quantity,
		priceUSD: priceUSD,
		priceEUR: priceUSD.Convert(rate, "EUR"),
		rate:     rate,
		feesUSD:  feesUSD,
		feesEUR:  feesUSD.Convert(rate, "EUR"),
	}, nil
}

// Lapse is the vesting of an equity award, the shares are acquired at their
// fair market value.
type Lapse struct{ event }

func (Lapse) What() EventKind { return KindLapse }

// NewLapse creates a Lapse of quantity shares valued at fmv per share,
// converted with rate.
func NewLapse(on date.Date, quantity Quantity, fmv Money, rate decimal.Decimal) (Lapse, error) {
	e, err := newEvent(KindLapse, on, quantity, fmv, M(0, "USD"), rate)
	return Lapse{e}, err
}

// Sell is the disposal of shares at a transaction price.
//
// Fees are recorded for the audit but do not reduce the proceeds.
type Sell struct{ event }

func (Sell) What() EventKind { return KindSell }

// NewSell creates a Sell of quantity shares at price per share, paying fees
// for the whole transaction, converted with rate.
func NewSell(on date.Date, quantity Quantity, price, fees Money, rate decimal.Decimal) (Sell, error) {
	e, err := newEvent(KindSell, on, quantity, price, fees, rate)
	return Sell{e}, err
}

// Normalizer builds events converted with the rate of their day.
type Normalizer struct {
	Rates *RateTable
}

// Lapse returns a Lapse converted with the rate applicable on its day.
func (n Normalizer) Lapse(on date.Date, quantity Quantity, fmv Money) (Lapse, error) {
	rate, err := n.Rates.RateOn(on)
	if err != nil {
		return Lapse{}, err
	}
	return NewLapse(on, quantity, fmv, rate)
}

// Sell returns a Sell converted with the rate applicable on its day.
func (n Normalizer) Sell(on date.Date, quantity Quantity, price, fees Money) (Sell, error) {
	rate, err := n.Rates.RateOn(on)
	if err != nil {
		return Sell{}, err
	}
	return NewSell(on, quantity, price, fees, rate)
}
