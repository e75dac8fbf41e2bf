package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"paydesk/internal/transport/http/api"
)

// DecodeJSON reads the body into dst and answers 400 on failure. It
// reports whether the handler should continue.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request payload too large", requestID)
	case errors.Is(err, io.EOF):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body required", requestID)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	}
	return false
}

// Amount requires a non-negative decimal.
func (v *Validator) Amount(field string, value *decimal.Decimal) decimal.Decimal {
	if value == nil {
		v.Add(field, "is required")
		return decimal.Zero
	}
	if value.IsNegative() {
		v.Add(field, "must not be negative")
	}
	return *value
}
