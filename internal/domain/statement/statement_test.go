package statement

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paydesk/internal/domain/payroll"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func samplePayment(t *testing.T) (payroll.Payment, payroll.Period) {
	period := payroll.Period{
		Title:     "January 2026",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	return payroll.Payment{
		Employee: payroll.EmployeeSnapshot{
			FirstName: "Aline", LastName: "Uwase", Position: "Accountant",
			Department: "Finance", PaymentRate: "monthly",
		},
		BaseSalary: dec(t, "500000"),
		Benefits: []payroll.Line{
			{Name: "Transport", Amount: dec(t, "20000")},
			{Name: "Housing", Amount: dec(t, "1234.5")},
		},
		Deductions: []payroll.Line{
			{Name: "Tax", Amount: dec(t, "5000")},
			{Name: "Pension", Amount: dec(t, "15000")},
		},
		TotalBenefits:   dec(t, "21234.5"),
		TotalDeductions: dec(t, "20000"),
		NetPay:          dec(t, "501234.5"),
		Currency:        "RWF",
		Period:          period,
	}, period
}

func rowsOf(t *testing.T, s Statement, title string) []Row {
	t.Helper()
	for _, section := range s.Sections {
		if section.Title == title {
			return section.Rows
		}
	}
	t.Fatalf("section %q missing", title)
	return nil
}

func TestFormatLayout(t *testing.T) {
	payment, period := samplePayment(t)
	s := Format(payment, period)

	if s.Title != "Payment Slip" {
		t.Fatalf("expected title, got %q", s.Title)
	}
	if s.DateRange != "January 1, 2026 - January 31, 2026" {
		t.Fatalf("unexpected date range %q", s.DateRange)
	}

	var titles []string
	for _, section := range s.Sections {
		titles = append(titles, section.Title)
	}
	if strings.Join(titles, "|") != "Employee Information|Earnings|Deductions|Summary" {
		t.Fatalf("unexpected section order %v", titles)
	}

	info := rowsOf(t, s, SectionEmployee)
	if info[0].Value != "Aline Uwase" || info[3].Value != "Monthly" {
		t.Fatalf("unexpected employee rows %+v", info)
	}

	earnings := rowsOf(t, s, SectionEarnings)
	want := []Row{
		{Label: "Base Salary", Value: "500,000 RWF"},
		{Label: "Transport", Value: "+20,000 RWF"},
		{Label: "Housing", Value: "+1,234.5 RWF"},
	}
	for i, row := range want {
		if earnings[i] != row {
			t.Fatalf("earnings %d: expected %+v, got %+v", i, row, earnings[i])
		}
	}

	deductions := rowsOf(t, s, SectionDeductions)
	if deductions[0] != (Row{Label: "Tax", Value: "-5,000 RWF"}) || deductions[1] != (Row{Label: "Pension", Value: "-15,000 RWF"}) {
		t.Fatalf("unexpected deductions %+v", deductions)
	}

	summary := rowsOf(t, s, SectionSummary)
	if summary[0].Value != "+21,234.5 RWF" || summary[1].Value != "-20,000 RWF" || summary[2].Value != "501,234.5 RWF" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if s.Footer != Footer {
		t.Fatalf("unexpected footer %q", s.Footer)
	}
}

func TestFormatNegativeNetPlain(t *testing.T) {
	payment, period := samplePayment(t)
	payment.NetPay = dec(t, "-500")
	summary := rowsOf(t, Format(payment, period), SectionSummary)
	if summary[2].Value != "-500 RWF" {
		t.Fatalf("expected plain negative net, got %q", summary[2].Value)
	}
}

func TestNumber(t *testing.T) {
	cases := map[string]string{
		"0":           "0",
		"0.01":        "0.01",
		"33.333333":   "33.33",
		"1234567.891": "1,234,567.89",
		"-15000":      "-15,000",
	}
	for in, want := range cases {
		if got := Number(dec(t, in)); got != want {
			t.Fatalf("Number(%s): expected %q, got %q", in, want, got)
		}
	}
}

func TestTextIsDeterministic(t *testing.T) {
	payment, period := samplePayment(t)
	first := Format(payment, period).Text()
	second := Format(payment, period).Text()
	if first != second {
		t.Fatal("expected identical text for identical input")
	}

	transport := strings.Index(first, "Transport")
	housing := strings.Index(first, "Housing")
	netPay := strings.Index(first, "Net Pay")
	footer := strings.Index(first, Footer)
	if !(transport < housing && housing < netPay && netPay < footer) {
		t.Fatalf("unexpected text order:\n%s", first)
	}
	if !strings.HasPrefix(first, "Payment Slip\nJanuary 2026\nJanuary 1, 2026 - January 31, 2026\n") {
		t.Fatalf("unexpected header:\n%s", first)
	}
}

func TestHourlyShowsHours(t *testing.T) {
	payment, period := samplePayment(t)
	hours := dec(t, "37.5")
	payment.Hours = &hours
	payment.Employee.PaymentRate = "hourly"

	info := rowsOf(t, Format(payment, period), SectionEmployee)
	if info[3].Value != "Hourly" {
		t.Fatalf("expected Hourly, got %q", info[3].Value)
	}
	if info[4] != (Row{Label: "Hours Worked", Value: "37.5"}) {
		t.Fatalf("expected hours row, got %+v", info[4])
	}
}

func TestWritePDF(t *testing.T) {
	payment, period := samplePayment(t)
	var buf bytes.Buffer
	if err := Format(payment, period).WritePDF(&buf); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected PDF header")
	}
}
