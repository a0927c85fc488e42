package claims

import (
	"time"

	dErrors "attesto/pkg/domain-errors"
)

// Date is a calendar date broken into circuit-friendly components. Circuits
// receive year, month and day as separate field elements, so the native side
// works on the same decomposition to stay bit-compatible with the constraints.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses a YYYY-MM-DD string into a Date. Rejects anything that is
// not a real calendar date (2007-02-30 does not parse).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, dErrors.Newf(dErrors.CodeInvalidInputShape, "date %q does not parse as YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf truncates a time to its calendar date in the time's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// Valid reports whether the components form a plausible calendar date. This
// is the structural domain check applied to public inputs; it mirrors the
// range constraints inside the circuits (year in [1, 9999], month in [1, 12],
// day in [1, 31]).
func (d Date) Valid() bool {
	return d.Year >= 1 && d.Year <= 9999 &&
		d.Month >= 1 && d.Month <= 12 &&
		d.Day >= 1 && d.Day <= 31
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// YearsReached reports whether at least `years` calendar years have passed
// between dob and current: true iff (dob.Year+years, dob.Month, dob.Day) <=
// current, compared component-wise. This is year/month/day arithmetic, not a
// seconds approximation, so month lengths and leap years cannot drift the
// boundary: someone born 2008-02-20 is 18 on 2026-02-20 exactly, and a
// 2008-02-29 birthday reaches 18 on 2026-03-01. The circuits implement the
// identical comparison.
func (d Date) YearsReached(years int, current Date) bool {
	threshold := Date{Year: d.Year + years, Month: d.Month, Day: d.Day}
	return !current.Before(threshold)
}
