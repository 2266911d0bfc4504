package schwab

import (
	"io"
	"strings"

	"github.com/etnz/kest"
)

// ParseBrokerage reads a brokerage account transaction history.
//
// Every "Sell" row of the tax year is a disposal. Its price is per share,
// and its fees are read from the "Fees & Comm" column. The "Amount" column,
// net of fees, is not used.
func ParseBrokerage(r io.Reader, opts Options, norm Normalizer) ([]kest.Event, error) {
	rows, err := readTable(r, "Date", "Action", "Symbol", "Quantity", "Price")
	if err != nil {
		return nil, err
	}
	f := newFilter(opts, "brokerage", DefaultBrokerageActions)

	var events []kest.Event
	for _, r := range rows {
		action := r.get("Action")
		switch {
		case r.isBlank():
			continue

		case strings.HasPrefix(r.get("Date"), "Transactions Total"):
			// Trailer of older exports.
			continue

		case strings.EqualFold(action, "Sell"):
			keep, err := f.keepSymbol(r)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
			ev, ok, err := f.sell(r, norm)
			if err != nil {
				return nil, err
			}
			if ok {
				events = append(events, ev)
			}

		default:
			if err := f.unknown(r); err != nil {
				return nil, err
			}
		}
	}
	return events, nil
}

// sell builds the event of a Sell row, ok is false outside the tax year.
func (f filter) sell(r row, norm Normalizer) (ev kest.Sell, ok bool, err error) {
	on, err := f.date(r)
	if err != nil {
		return ev, false, err
	}
	if !f.keepYear(on) {
		return ev, false, nil
	}
	qty, err := f.quantity(r)
	if err != nil {
		return ev, false, err
	}
	price, err := f.money(r, "Price")
	if err != nil {
		return ev, false, err
	}
	fees, err := f.money(r, "Fees & Comm")
	if err != nil {
		return ev, false, err
	}
	ev, err = norm.Sell(on, qty, price, fees)
	if err != nil {
		return ev, false, f.errorf(r, err, "sell of %s shares at %s", qty, price)
	}
	return ev, true, nil
}
