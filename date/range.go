package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Year returns the range of a calendar year.
func Year(year int) Range { return Range{From: StartOfYear(year), To: EndOfYear(year)} }

// Contains reports whether the date is in the range, boundaries included.
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Extend returns a range starting days earlier.
func (r Range) Extend(days int) Range { return Range{From: r.From.Add(-days), To: r.To} }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
