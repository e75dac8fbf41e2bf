package benefit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"paydesk/internal/domain/employee"
)

// Eligibility expressions are CEL booleans over an `employee` map, e.g.
//
//	employee.department == "Engineering" && employee.paymentRate == "monthly"
type Evaluator struct {
	env   *cel.Env
	cache sync.Map
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(cel.Variable("employee", cel.MapType(cel.StringType, cel.StringType)))
	if err != nil {
		return nil, err
	}
	return &Evaluator{env: env}, nil
}

// Validate compiles expr and checks that it yields a bool.
func (e *Evaluator) Validate(expr string) error {
	_, err := e.program(expr)
	return err
}

// Applies reports whether rule covers emp.
func (e *Evaluator) Applies(rule Rule, emp employee.Employee) (bool, error) {
	for _, id := range rule.EmployeeIDs {
		if id == emp.ID {
			return true, nil
		}
	}
	if strings.TrimSpace(rule.Eligibility) == "" {
		return !rule.Targeted(), nil
	}
	program, err := e.program(rule.Eligibility)
	if err != nil {
		return false, err
	}
	out, _, err := program.Eval(map[string]any{"employee": Attributes(emp)})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: expression did not yield a bool", ErrInvalidExpression)
	}
	return matched, nil
}

// Filter keeps the rules that apply to emp, preserving order.
func (e *Evaluator) Filter(rules []Rule, emp employee.Employee) ([]Rule, error) {
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		ok, err := e.Applies(rule, emp)
		if err != nil {
			return nil, fmt.Errorf("benefit %q: %w", rule.Name, err)
		}
		if ok {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: expression required", ErrInvalidExpression)
	}
	if cached, ok := e.cache.Load(expr); ok {
		return cached.(cel.Program), nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must be boolean, got %s", ErrInvalidExpression, ast.OutputType())
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	e.cache.Store(expr, program)
	return program, nil
}

// Attributes is the view of an employee that expressions can read.
func Attributes(emp employee.Employee) map[string]string {
	return map[string]string{
		"id":          emp.ID,
		"firstName":   emp.FirstName,
		"lastName":    emp.LastName,
		"position":    emp.Position,
		"department":  emp.Department,
		"paymentRate": emp.PaymentRate,
		"status":      emp.Status,
	}
}
