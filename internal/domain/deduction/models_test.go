package deduction

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLabel(t *testing.T) {
	fixed := Rule{Type: TypeFixed, Value: decimal.RequireFromString("5000")}
	if fixed.Label() != "5000" {
		t.Fatalf("unexpected fixed label %q", fixed.Label())
	}
	pct := Rule{Type: TypePercentage, Value: decimal.RequireFromString("0.01")}
	if pct.Label() != "0.01%" {
		t.Fatalf("unexpected percentage label %q", pct.Label())
	}
}

func TestValueKeepsSmallPercentagesExact(t *testing.T) {
	var rule Rule
	if err := json.Unmarshal([]byte(`{"name":"Levy","type":"percentage","value":0.01}`), &rule); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rule.Value.String() != "0.01" {
		t.Fatalf("expected exact 0.01, got %s", rule.Value.String())
	}
	out, err := json.Marshal(rule)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["value"] != "0.01" {
		t.Fatalf("expected value \"0.01\" in JSON, got %v", decoded["value"])
	}
}
