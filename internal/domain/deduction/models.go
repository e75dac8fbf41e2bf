package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeFixed      = "fixed"
	TypePercentage = "percentage"
)

var Types = []string{TypeFixed, TypePercentage}

// Rule is a company-wide deduction. A fixed rule deducts Value; a
// percentage rule deducts Value percent of the base salary.
type Rule struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Label is how the rule reads in the deductions table.
func (r Rule) Label() string {
	if r.Type == TypePercentage {
		return r.Value.String() + "%"
	}
	return r.Value.String()
}
