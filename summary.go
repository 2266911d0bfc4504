package kest

// Summary aggregates the realized profits and losses of audit records into
// the figures reported on the E1kv form.
type Summary struct {
	Gains    Money // sum of positive realized P/L, never negative
	Losses   Money // sum of negative realized P/L as a positive amount
	Realized Money // signed sum of realized P/L
	Lapses   int
	Sells    int
}

// Summarize partitions realized P/L into gains and losses. Records without
// realized P/L (lapses) are not part of the totals.
func Summarize(records []AuditRecord) Summary {
	s := Summary{Gains: M(0, "EUR"), Losses: M(0, "EUR"), Realized: M(0, "EUR")}
	for _, r := range records {
		switch r.Kind {
		case KindLapse:
			s.Lapses++
		case KindSell:
			s.Sells++
		}
		if !r.RealizedPL.Valid {
			continue
		}
		pl := r.RealizedPL.Money
		s.Realized = s.Realized.Add(pl)
		switch {
		case pl.IsPositive():
			s.Gains = s.Gains.Add(pl)
		case pl.IsNegative():
			s.Losses = s.Losses.Add(pl.Neg())
		}
	}
	return s
}

// Kennzahl994 returns the realized gains as declared, rounded to the cent.
func (s Summary) Kennzahl994() Money { return s.Gains.Round() }

// Kennzahl892 returns the realized losses as declared, rounded to the cent.
func (s Summary) Kennzahl892() Money { return s.Losses.Round() }

// Report gathers everything known about one security for a tax year.
type Report struct {
	Symbol  string
	Year    int
	Result  *Result
	Summary Summary
}

// NewReport summarizes a Result.
func NewReport(symbol string, year int, result *Result) *Report {
	return &Report{
		Symbol:  symbol,
		Year:    year,
		Result:  result,
		Summary: Summarize(result.Records),
	}
}
