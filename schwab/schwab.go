// Package schwab reads the CSV exports of Charles Schwab into kest events.
//
// Two exports are supported: the Equity Award Center transaction history,
// where vested awards appear as "Lapse" actions, and the brokerage account
// transaction history, where sales appear as "Sell" actions.
//
// Rows are never dropped silently. Actions that do not matter for the
// capital gains are listed in Options.Ignore, any other action is an error in
// strict mode, because a missing acquisition or disposal misstates the tax.
package schwab

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/etnz/kest"
	"github.com/etnz/kest/date"
)

var (
	// ErrUnrecognizedRow reports a row that cannot be classified or parsed.
	ErrUnrecognizedRow = errors.New("unrecognized row")
	// ErrForeignSymbol reports a row about another security, when rejected.
	ErrForeignSymbol = errors.New("row for another symbol")
)

// SymbolPolicy decides what to do with rows about another security.
type SymbolPolicy int

const (
	// SkipForeign logs a warning and skips the row.
	SkipForeign SymbolPolicy = iota
	// RejectForeign fails the parsing.
	RejectForeign
)

func (p SymbolPolicy) String() string {
	switch p {
	case SkipForeign:
		return "skip"
	case RejectForeign:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseSymbolPolicy parses a string into a SymbolPolicy.
func ParseSymbolPolicy(s string) (SymbolPolicy, error) {
	switch s {
	case "skip", "":
		return SkipForeign, nil
	case "reject":
		return RejectForeign, nil
	default:
		return 0, fmt.Errorf("unknown symbol policy: %q", s)
	}
}

// Options filters and validates the rows of an export.
type Options struct {
	Symbol       string       // only rows about this symbol are kept, all if empty
	Year         int          // only rows of this tax year are kept, all if zero
	Strict       bool         // unknown actions are errors instead of warnings
	Ignore       []string     // extra actions known to be irrelevant
	SymbolPolicy SymbolPolicy // what to do with rows about another symbol
}

// DefaultAwardActions are the Equity Award Center actions that carry no
// acquisition. "Sale" and "Quick Sale" are deliberately absent.
var DefaultAwardActions = []string{
	"Deposit",
	"Wire Transfer",
	"Tax Withholding",
	"Tax Reversal",
	"Dividend",
	"Journal",
	"Transfer",
}

// DefaultBrokerageActions are the brokerage actions that carry no disposal
// of shares. "Buy" and "Reinvest Shares" are acquisitions and deliberately
// absent.
var DefaultBrokerageActions = []string{
	"Stock Plan Activity",
	"Journal",
	"Journaled Shares",
	"Wire Sent",
	"Wire Received",
	"Wire Funds",
	"Wire Funds Received",
	"Funds Received",
	"MoneyLink Transfer",
	"MoneyLink Deposit",
	"Credit Interest",
	"Bank Interest",
	"Qualified Dividend",
	"Cash Dividend",
	"Non-Qualified Div",
	"Pr Yr Cash Div",
	"NRA Tax Adj",
	"NRA Withholding",
	"Service Fee",
	"Misc Cash Entry",
	"Cash In Lieu",
}

// Normalizer builds events converted to EUR, kest.Normalizer implements it.
type Normalizer interface {
	Lapse(on date.Date, quantity kest.Quantity, fmv kest.Money) (kest.Lapse, error)
	Sell(on date.Date, quantity kest.Quantity, price, fees kest.Money) (kest.Sell, error)
}

// filter applies the options common to both exports.
type filter struct {
	Options
	ignore []string
	source string
}

func newFilter(opts Options, source string, defaults []string) filter {
	return filter{Options: opts, ignore: slices.Concat(defaults, opts.Ignore), source: source}
}

func (f filter) errorf(r row, err error, format string, args ...any) error {
	return fmt.Errorf("%s line %d: %w: %s", f.source, r.line, err, fmt.Sprintf(format, args...))
}

// keepSymbol reports whether the row is about the requested symbol.
func (f filter) keepSymbol(r row) (bool, error) {
	symbol := r.get("Symbol")
	if f.Symbol == "" || strings.EqualFold(symbol, f.Symbol) {
		return true, nil
	}
	if f.SymbolPolicy == RejectForeign {
		return false, f.errorf(r, ErrForeignSymbol, "%s %q, want %q", r.get("Action"), symbol, f.Symbol)
	}
	log.Printf("warning, %s line %d: %s of %q is not about %q, skipped", f.source, r.line, r.get("Action"), symbol, f.Symbol)
	return false, nil
}

// keepYear reports whether the day belongs to the tax year.
func (f filter) keepYear(on date.Date) bool { return f.Year == 0 || date.Year(f.Year).Contains(on) }

// unknown handles an action that is neither relevant nor ignored.
func (f filter) unknown(r row) error {
	action := r.get("Action")
	if slices.ContainsFunc(f.ignore, func(a string) bool { return strings.EqualFold(a, action) }) {
		return nil
	}
	if f.Strict {
		return f.errorf(r, ErrUnrecognizedRow, "unknown action %q", action)
	}
	log.Printf("warning, %s line %d: unknown action %q, skipped", f.source, r.line, action)
	return nil
}

func (f filter) date(r row) (date.Date, error) {
	on, err := date.ParseUS(r.get("Date"))
	if err != nil {
		return date.Date{}, f.errorf(r, ErrUnrecognizedRow, "%v", err)
	}
	return on, nil
}

func (f filter) quantity(r row) (kest.Quantity, error) {
	str := strings.ReplaceAll(r.get("Quantity"), ",", "")
	q, err := kest.ParseQuantity(str)
	if err != nil {
		return kest.Quantity{}, f.errorf(r, ErrUnrecognizedRow, "invalid quantity %q", r.get("Quantity"))
	}
	return q, nil
}

func (f filter) money(r row, column string) (kest.Money, error) {
	m, err := kest.ParseMoney(r.get(column), "USD")
	if err != nil {
		return kest.Money{}, f.errorf(r, ErrUnrecognizedRow, "%s: %v", column, err)
	}
	return m, nil
}
