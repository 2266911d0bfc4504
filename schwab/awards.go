package schwab

import (
	"io"
	"strings"

	"github.com/etnz/kest"
	"github.com/etnz/kest/date"
)

// ParseEquityAwards reads an Equity Award Center transaction history.
//
// A vesting appears as a "Lapse" action row, followed by a detail row with
// an empty action, that carries the FairMarketValuePrice. The quantity is
// the one of the action row: the gross number of shares vested.
//
// Lapses outside the tax year are skipped. A lapse without its detail row
// is an error.
func ParseEquityAwards(r io.Reader, opts Options, norm Normalizer) ([]kest.Event, error) {
	rows, err := readTable(r, "Date", "Action", "Symbol", "Quantity", "FairMarketValuePrice")
	if err != nil {
		return nil, err
	}
	f := newFilter(opts, "equity awards", DefaultAwardActions)

	var events []kest.Event
	var pending *row // the Lapse action row waiting for its detail row
	for _, r := range rows {
		action := r.get("Action")
		switch {
		case r.isBlank():
			continue

		case action == "":
			// Detail rows of other actions, or of a lapse outside the year.
			if pending == nil || r.get("FairMarketValuePrice") == "" {
				continue
			}
			ev, err := f.lapse(*pending, r, norm)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
			pending = nil

		case pending != nil:
			return nil, f.errorf(*pending, ErrUnrecognizedRow, "lapse without a FairMarketValuePrice detail row")

		case strings.EqualFold(action, "Lapse"):
			keep, err := f.keepSymbol(r)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
			on, err := f.date(r)
			if err != nil {
				return nil, err
			}
			if !f.keepYear(on) {
				continue
			}
			pending = &r

		default:
			if err := f.unknown(r); err != nil {
				return nil, err
			}
		}
	}
	if pending != nil {
		return nil, f.errorf(*pending, ErrUnrecognizedRow, "lapse without a FairMarketValuePrice detail row")
	}
	return events, nil
}

// lapse builds the event from a Lapse action row and its detail row.
func (f filter) lapse(action, detail row, norm Normalizer) (kest.Lapse, error) {
	var on date.Date
	var qty kest.Quantity
	var fmv kest.Money
	var err error
	if on, err = f.date(action); err != nil {
		return kest.Lapse{}, err
	}
	if qty, err = f.quantity(action); err != nil {
		return kest.Lapse{}, err
	}
	if fmv, err = f.money(detail, "FairMarketValuePrice"); err != nil {
		return kest.Lapse{}, err
	}
	ev, err := norm.Lapse(on, qty, fmv)
	if err != nil {
		return kest.Lapse{}, f.errorf(action, err, "lapse of %s shares at %s", qty, fmv)
	}
	return ev, nil
}
