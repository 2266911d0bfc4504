package kest

import (
	"github.com/etnz/kest/date"
	"github.com/shopspring/decimal"
)

// AuditRecord is the snapshot of one processed event, with the position
// before and after it.
//
// Proceeds and RealizedPL are only valid for sells. CostBasis is the
// acquisition value for a lapse, and the cost of the disposed shares for a
// sell.
type AuditRecord struct {
	Date     date.Date
	Kind     EventKind
	Quantity Quantity
	PriceUSD Money
	PriceEUR Money
	Rate     decimal.Decimal
	FeesUSD  Money
	FeesEUR  Money

	QuantityBefore Quantity
	AverageBefore  Money
	QuantityAfter  Quantity
	AverageAfter   Money

	CostBasis  Money
	Proceeds   NullMoney
	RealizedPL NullMoney
}

// MarshalJSON writes the record with a stable key order, not applicable
// amounts are omitted.
func (r AuditRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.Append("event", r.Kind)
	w.Append("quantity", r.Quantity)
	w.Append("priceUSD", r.PriceUSD)
	w.Append("rate", r.Rate)
	w.Append("priceEUR", r.PriceEUR)
	if !r.FeesUSD.IsZero() {
		w.Append("feesUSD", r.FeesUSD)
		w.Append("feesEUR", r.FeesEUR)
	}
	w.Append("quantityBefore", r.QuantityBefore)
	w.Append("quantityAfter", r.QuantityAfter)
	w.Append("averageBefore", r.AverageBefore)
	w.Append("averageAfter", r.AverageAfter)
	w.Nullable("proceeds", r.Proceeds)
	w.Append("costBasis", r.CostBasis)
	w.Nullable("realizedPL", r.RealizedPL)
	return w.MarshalJSON()
}
