package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"paydesk/internal/domain/employee"
)

// Line is one applied benefit or deduction.
type Line struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// EmployeeSnapshot is the part of an employee a payment keeps, so slips
// still render after the employee record changes or is removed.
type EmployeeSnapshot struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	PaymentRate string `json:"paymentRate"`
}

func Snapshot(emp employee.Employee) EmployeeSnapshot {
	return EmployeeSnapshot{
		ID:          emp.ID,
		FirstName:   emp.FirstName,
		LastName:    emp.LastName,
		Position:    emp.Position,
		Department:  emp.Department,
		PaymentRate: emp.PaymentRate,
	}
}

func (e EmployeeSnapshot) FullName() string {
	return employee.Employee{FirstName: e.FirstName, LastName: e.LastName}.FullName()
}

type Period struct {
	Title     string    `json:"title"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (p Period) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title required", ErrInvalidPeriod)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates required", ErrInvalidPeriod)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidPeriod)
	}
	return nil
}

type Payment struct {
	ID              string           `json:"id"`
	Employee        EmployeeSnapshot `json:"employee"`
	Hours           *decimal.Decimal `json:"hours,omitempty"`
	BaseSalary      decimal.Decimal  `json:"baseSalary"`
	Benefits        []Line           `json:"benefits"`
	Deductions      []Line           `json:"deductions"`
	TotalBenefits   decimal.Decimal  `json:"totalBenefits"`
	TotalDeductions decimal.Decimal  `json:"totalDeductions"`
	NetPay          decimal.Decimal  `json:"netPay"`
	Currency        string           `json:"currency"`
	Period          Period           `json:"period"`
	Warnings        []string         `json:"warnings"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type Filter struct {
	PeriodTitle string
	EmployeeID  string
}

// Request asks for one employee's payment. Hours only matter for hourly
// employees; nil means derive them from attendance.
type Request struct {
	EmployeeID string           `json:"employeeId"`
	Period     Period           `json:"period"`
	Hours      *decimal.Decimal `json:"hours,omitempty"`
}

type RunFailure struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

type RunResult struct {
	Period     Period       `json:"period"`
	Created    int          `json:"created"`
	PaymentIDs []string     `json:"paymentIds"`
	TotalNet   string       `json:"totalNet"`
	Failures   []RunFailure `json:"failures"`
}
