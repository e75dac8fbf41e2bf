package payroll

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Payments"

var registerHeader = []string{
	"Employee", "Position", "Department", "Payment Rate", "Hours",
	"Base Salary", "Total Benefits", "Total Deductions", "Net Pay", "Currency",
	"Period", "Start Date", "End Date", "Warnings",
}

// WriteRegister writes payments as one XLSX sheet, one row per payment.
// Amounts are written as numbers so the sheet can sum them.
func WriteRegister(w io.Writer, payments []Payment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(registerSheet, "A1", &registerHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(registerSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, p := range payments {
		hours := ""
		if p.Hours != nil {
			hours = p.Hours.String()
		}
		row := []any{
			p.Employee.FullName(),
			p.Employee.Position,
			p.Employee.Department,
			p.Employee.PaymentRate,
			hours,
			p.BaseSalary.InexactFloat64(),
			p.TotalBenefits.InexactFloat64(),
			p.TotalDeductions.InexactFloat64(),
			p.NetPay.InexactFloat64(),
			p.Currency,
			p.Period.Title,
			p.Period.StartDate.Format("2006-01-02"),
			p.Period.EndDate.Format("2006-01-02"),
			strings.Join(p.Warnings, ","),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return fmt.Errorf("register row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(registerSheet, "A", "C", 24); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
