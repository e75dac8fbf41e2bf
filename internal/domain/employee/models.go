package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RateMonthly = "monthly"
	RateHourly  = "hourly"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

var PaymentRates = []string{RateMonthly, RateHourly}

type Employee struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Position    string          `json:"position"`
	Department  string          `json:"department"`
	PaymentRate string          `json:"paymentRate"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	BankAccount string          `json:"bankAccount,omitempty"`
	Status      string          `json:"status"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func (e Employee) Hourly() bool {
	return e.PaymentRate == RateHourly
}

type Filter struct {
	Department string
	Status     string
}
