package benefit

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"paydesk/internal/domain/employee"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator()
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	return e
}

func TestAppliesUntargetedRuleToEveryone(t *testing.T) {
	e := newEvaluator(t)
	ok, err := e.Applies(Rule{Name: "Transport", Amount: decimal.NewFromInt(10000)}, employee.Employee{ID: "e1"})
	if err != nil || !ok {
		t.Fatalf("expected untargeted rule to apply, got %v %v", ok, err)
	}
}

func TestAppliesDirectAssignment(t *testing.T) {
	e := newEvaluator(t)
	rule := Rule{Name: "Housing", EmployeeIDs: []string{"e2"}}
	if ok, _ := e.Applies(rule, employee.Employee{ID: "e1"}); ok {
		t.Fatal("expected rule to skip unassigned employee")
	}
	if ok, _ := e.Applies(rule, employee.Employee{ID: "e2"}); !ok {
		t.Fatal("expected rule to apply to assigned employee")
	}
}

func TestAppliesExpression(t *testing.T) {
	e := newEvaluator(t)
	rule := Rule{Name: "On-call", Eligibility: `employee.department == "Engineering" && employee.paymentRate == "monthly"`}

	eng := employee.Employee{ID: "e1", Department: "Engineering", PaymentRate: employee.RateMonthly}
	ops := employee.Employee{ID: "e2", Department: "Operations", PaymentRate: employee.RateMonthly}

	if ok, err := e.Applies(rule, eng); err != nil || !ok {
		t.Fatalf("expected engineering match, got %v %v", ok, err)
	}
	if ok, err := e.Applies(rule, ops); err != nil || ok {
		t.Fatalf("expected operations miss, got %v %v", ok, err)
	}
}

func TestValidateRejectsBadExpressions(t *testing.T) {
	e := newEvaluator(t)
	for _, expr := range []string{"", "employee.department ==", `employee.department`, "1 + 2"} {
		if err := e.Validate(expr); !errors.Is(err, ErrInvalidExpression) {
			t.Fatalf("expected ErrInvalidExpression for %q, got %v", expr, err)
		}
	}
	if err := e.Validate(`employee.position.startsWith("Senior")`); err != nil {
		t.Fatalf("expected valid expression, got %v", err)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	e := newEvaluator(t)
	rules := []Rule{
		{Name: "A"},
		{Name: "B", EmployeeIDs: []string{"other"}},
		{Name: "C", Eligibility: `employee.status == "active"`},
	}
	got, err := e.Filter(rules, employee.Employee{ID: "e1", Status: employee.StatusActive})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}
