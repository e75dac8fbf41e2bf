package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// CalculateDays returns the inclusive calendar day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	start, end = dateOf(start), dateOf(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// CalculateRequestDays is CalculateDays less half a day for each half-day
// boundary.
func CalculateRequestDays(start, end time.Time, startHalf, endHalf bool) (decimal.Decimal, error) {
	n, err := CalculateDays(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	if n == 1 && startHalf && endHalf {
		return decimal.Zero, ErrInvalidHalfDay
	}

	days := decimal.NewFromInt(int64(n))
	if startHalf {
		days = days.Sub(half)
	}
	if endHalf {
		days = days.Sub(half)
	}
	if !days.IsPositive() {
		return decimal.Zero, ErrInvalidHalfDay
	}
	return days, nil
}

// MonthlyDays spreads approved requests over the months of year, one per
// calendar day on leave.
func MonthlyDays(year int, requests []Request) map[time.Month]int {
	out := map[time.Month]int{}
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	for _, r := range requests {
		if r.Status != StatusApproved {
			continue
		}
		from, to := dateOf(r.StartDate), dateOf(r.EndDate)
		if from.Before(first) {
			from = first
		}
		if to.After(last) {
			to = last
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			out[d.Month()]++
		}
	}
	return out
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
