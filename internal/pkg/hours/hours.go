// Package hours holds the numeric helpers shared by the attendance and payroll math.
package hours

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinEfficiency = 0.0
	MaxEfficiency = 150.0
)

// Round2 rounds half away from zero to two decimal places.
// Only response mappers and stored derived fields should call it.
func Round2(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

// Between returns the unrounded number of hours from start to end. It is negative when
// end is before start.
func Between(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// Weighted multiplies hours by a rate multiplier without intermediate rounding.
func Weighted(h float64, multiplier decimal.Decimal) float64 {
	return decimal.NewFromFloat(h).Mul(multiplier).InexactFloat64()
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Efficiency returns worked/theoretical as a percentage clamped to [0, 150].
// A non-positive theoretical value yields 0.
func Efficiency(worked, theoretical float64) float64 {
	if theoretical <= 0 {
		return 0
	}
	return Clamp(worked/theoretical*100, MinEfficiency, MaxEfficiency)
}

// WorkingDays counts the Monday to Friday dates of a calendar month.
func WorkingDays(year int, month time.Month) int {
	n := 0
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
