package date

import "time"

// Period is a calendar period used to align ranges.
type Period int

const (
	Monthly Period = iota
	Yearly
)

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(p Period) Date {
	if p == Yearly {
		return New(d.y, time.January, 1)
	}
	return New(d.y, d.m, 1)
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	if p == Yearly {
		return New(d.y, time.December, 31)
	}
	return New(d.y, d.m+1, 0)
}
