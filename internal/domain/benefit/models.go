package benefit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rule is a fixed-amount benefit. It targets employees listed in
// EmployeeIDs, or those matching the Eligibility expression; a rule with
// neither applies to everyone.
type Rule struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	EmployeeIDs []string        `json:"employeeIds"`
	Eligibility string          `json:"eligibility,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (r Rule) Targeted() bool {
	return len(r.EmployeeIDs) > 0 || r.Eligibility != ""
}
