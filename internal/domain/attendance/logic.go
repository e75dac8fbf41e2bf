package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LateGrace is how long after the workday start a check-in still counts
	// as regular.
	LateGrace = 5 * time.Minute
	// EarlyMargin is how far before the workday start a check-in must be to
	// count as early.
	EarlyMargin = 15 * time.Minute
	// MaxShift caps the hours a single record can contribute.
	MaxShift = 14 * time.Hour
)

// Classify compares a check-in with the workday start of the same day.
func Classify(checkIn, workdayStart time.Time) string {
	switch {
	case checkIn.After(workdayStart.Add(LateGrace)):
		return StatusLate
	case checkIn.Before(workdayStart.Add(-EarlyMargin)):
		return StatusEarly
	default:
		return StatusRegular
	}
}

// Worked is the duration of one record. Open records count as zero.
func Worked(r Record) time.Duration {
	if r.CheckOut == nil || !r.CheckOut.After(r.CheckIn) {
		return 0
	}
	d := r.CheckOut.Sub(r.CheckIn)
	if d > MaxShift {
		return MaxShift
	}
	return d
}

// TotalHours sums worked time in hours, rounded to two places.
func TotalHours(records []Record) decimal.Decimal {
	var minutes int64
	for _, r := range records {
		minutes += int64(Worked(r) / time.Minute)
	}
	return decimal.NewFromInt(minutes).DivRound(decimal.NewFromInt(60), 2)
}

// MonthlySeries counts statuses per calendar month of year. leaveDays maps
// a month (1-12) to approved leave days in it.
func MonthlySeries(year int, records []Record, leaveDays map[time.Month]int) []MonthCounts {
	out := make([]MonthCounts, 12)
	for i := range out {
		month := time.Month(i + 1)
		out[i] = MonthCounts{Month: month.String(), Leave: leaveDays[month]}
	}
	for _, r := range records {
		if r.WorkDate.Year() != year {
			continue
		}
		slot := &out[r.WorkDate.Month()-1]
		switch r.Status {
		case StatusRegular:
			slot.Regular++
		case StatusEarly:
			slot.Early++
		case StatusLate:
			slot.Late++
		}
	}
	return out
}
