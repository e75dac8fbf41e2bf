package attendance

import "time"

const (
	StatusRegular = "regular"
	StatusEarly   = "early"
	StatusLate    = "late"
)

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	WorkDate   time.Time  `json:"workDate"`
	CheckIn    time.Time  `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Filter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

// MonthCounts is one bar group of the attendance chart.
type MonthCounts struct {
	Month   string `json:"month"`
	Regular int    `json:"regular"`
	Early   int    `json:"early"`
	Late    int    `json:"late"`
	Leave   int    `json:"leave"`
}
