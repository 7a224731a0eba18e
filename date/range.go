package date

import "time"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange return the well known period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Year returns the range covering the whole calendar year.
func Year(year int) Range { return NewRange(New(year, time.January, 1), Yearly) }

// Months returns the range from the first day of month 'from' to the last day
// of month 'to', in the given year.
func Months(year int, from, to time.Month) Range {
	return Range{
		From: New(year, from, 1),
		To:   New(year, to, 1).EndOf(Monthly),
	}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }
