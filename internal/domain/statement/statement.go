// Package statement renders a computed payment as a payment slip.
package statement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
)

const (
	Title  = "Payment Slip"
	Footer = "This is a computer-generated document and does not require a signature."

	SectionEmployee   = "Employee Information"
	SectionEarnings   = "Earnings"
	SectionDeductions = "Deductions"
	SectionSummary    = "Summary"

	dateLayout = "January 2, 2006"
)

type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

type Statement struct {
	Title       string    `json:"title"`
	PeriodTitle string    `json:"periodTitle"`
	DateRange   string    `json:"dateRange"`
	Sections    []Section `json:"sections"`
	Footer      string    `json:"footer"`
}

// Format lays out payment for period. Line items keep the payment's order.
func Format(payment payroll.Payment, period payroll.Period) Statement {
	currency := payment.Currency

	info := Section{Title: SectionEmployee, Rows: []Row{
		{Label: "Name", Value: payment.Employee.FullName()},
		{Label: "Position", Value: payment.Employee.Position},
		{Label: "Department", Value: payment.Employee.Department},
		{Label: "Payment Rate", Value: rateLabel(payment.Employee.PaymentRate)},
	}}
	if payment.Hours != nil {
		info.Rows = append(info.Rows, Row{Label: "Hours Worked", Value: Number(*payment.Hours)})
	}

	earnings := Section{Title: SectionEarnings, Rows: []Row{
		{Label: "Base Salary", Value: Money(payment.BaseSalary, currency)},
	}}
	for _, line := range payment.Benefits {
		earnings.Rows = append(earnings.Rows, Row{Label: line.Name, Value: "+" + Money(line.Amount, currency)})
	}

	deductions := Section{Title: SectionDeductions, Rows: make([]Row, 0, len(payment.Deductions))}
	for _, line := range payment.Deductions {
		deductions.Rows = append(deductions.Rows, Row{Label: line.Name, Value: "-" + Money(line.Amount, currency)})
	}

	summary := Section{Title: SectionSummary, Rows: []Row{
		{Label: "Total Benefits", Value: "+" + Money(payment.TotalBenefits, currency)},
		{Label: "Total Deductions", Value: "-" + Money(payment.TotalDeductions, currency)},
		{Label: "Net Pay", Value: Money(payment.NetPay, currency)},
	}}

	return Statement{
		Title:       Title,
		PeriodTitle: period.Title,
		DateRange:   DateRange(period.StartDate, period.EndDate),
		Sections:    []Section{info, earnings, deductions, summary},
		Footer:      Footer,
	}
}

// DateRange is the inclusive range in long form.
func DateRange(start, end time.Time) string {
	return start.Format(dateLayout) + " - " + end.Format(dateLayout)
}

// Number groups thousands and keeps at most two fraction digits.
func Number(amount decimal.Decimal) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Money is Number followed by the currency code.
func Money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return Number(amount)
	}
	return Number(amount) + " " + currency
}

func rateLabel(rate string) string {
	switch rate {
	case employee.RateMonthly:
		return "Monthly"
	case employee.RateHourly:
		return "Hourly"
	case "":
		return ""
	}
	return strings.ToUpper(rate[:1]) + rate[1:]
}
