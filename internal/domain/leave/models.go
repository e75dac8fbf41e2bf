package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeMaternity = "maternity"
	TypeUnpaid    = "unpaid"
	TypeOther     = "other"
)

var Types = []string{TypeAnnual, TypeSick, TypeMaternity, TypeUnpaid, TypeOther}

type Request struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Type       string          `json:"type"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	StartHalf  bool            `json:"startHalf"`
	EndHalf    bool            `json:"endHalf"`
	Days       decimal.Decimal `json:"days"`
	Reason     string          `json:"reason"`
	Status     string          `json:"status"`
	DecidedBy  string          `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time      `json:"decidedAt,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Filter struct {
	EmployeeID string
	Status     string
}
