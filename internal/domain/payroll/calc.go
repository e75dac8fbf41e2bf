package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"paydesk/internal/domain/benefit"
	"paydesk/internal/domain/deduction"
	"paydesk/internal/domain/employee"
)

// Compute builds a payment from the employee's base salary. Benefit and
// deduction lines keep the order the rules were given in.
func Compute(emp employee.Employee, benefits []benefit.Rule, deductions []deduction.Rule) (Payment, error) {
	return compute(emp, emp.BaseSalary, nil, benefits, deductions)
}

// ComputeHourly pays the employee's rate for the given hours.
func ComputeHourly(emp employee.Employee, hours decimal.Decimal, benefits []benefit.Rule, deductions []deduction.Rule) (Payment, error) {
	if hours.IsNegative() {
		return Payment{}, ErrNegativeHours
	}
	worked := hours
	return compute(emp, emp.BaseSalary.Mul(hours), &worked, benefits, deductions)
}

// ValidateRules rejects rules the calculator would refuse.
func ValidateRules(benefits []benefit.Rule, deductions []deduction.Rule) error {
	for _, rule := range benefits {
		if rule.Amount.IsNegative() {
			return fmt.Errorf("%w: benefit %q", ErrNegativeValue, rule.Name)
		}
	}
	for _, rule := range deductions {
		if rule.Value.IsNegative() {
			return fmt.Errorf("%w: deduction %q", ErrNegativeValue, rule.Name)
		}
		if rule.Type != deduction.TypeFixed && rule.Type != deduction.TypePercentage {
			return fmt.Errorf("%w: %q", ErrInvalidDeductionType, rule.Type)
		}
	}
	return nil
}

// DeductionAmount is what rule takes from base.
func DeductionAmount(rule deduction.Rule, base decimal.Decimal) (decimal.Decimal, error) {
	switch rule.Type {
	case deduction.TypeFixed:
		return rule.Value, nil
	case deduction.TypePercentage:
		// Shift keeps the division by 100 exact.
		return base.Mul(rule.Value).Shift(-2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidDeductionType, rule.Type)
	}
}

func compute(emp employee.Employee, base decimal.Decimal, hours *decimal.Decimal, benefits []benefit.Rule, deductions []deduction.Rule) (Payment, error) {
	if base.IsNegative() {
		return Payment{}, fmt.Errorf("%w: base salary", ErrNegativeValue)
	}
	if err := ValidateRules(benefits, deductions); err != nil {
		return Payment{}, err
	}

	payment := Payment{
		Employee:        Snapshot(emp),
		Hours:           hours,
		BaseSalary:      base,
		Benefits:        make([]Line, 0, len(benefits)),
		Deductions:      make([]Line, 0, len(deductions)),
		TotalBenefits:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		Warnings:        []string{},
	}
	for _, rule := range benefits {
		payment.Benefits = append(payment.Benefits, Line{Name: rule.Name, Amount: rule.Amount})
		payment.TotalBenefits = payment.TotalBenefits.Add(rule.Amount)
	}
	for _, rule := range deductions {
		amount, err := DeductionAmount(rule, base)
		if err != nil {
			return Payment{}, err
		}
		payment.Deductions = append(payment.Deductions, Line{Name: rule.Name, Amount: amount})
		payment.TotalDeductions = payment.TotalDeductions.Add(amount)
	}
	payment.NetPay = base.Add(payment.TotalBenefits).Sub(payment.TotalDeductions)

	if payment.NetPay.IsNegative() {
		payment.Warnings = append(payment.Warnings, WarningNegativeNet)
	}
	if hours != nil && hours.IsZero() {
		payment.Warnings = append(payment.Warnings, WarningZeroHours)
	}
	return payment, nil
}
