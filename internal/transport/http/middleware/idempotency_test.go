package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"paydesk/internal/domain/auth"
)

type memoryIdempotency struct {
	hashes    map[string]string
	responses map[string]StoredResponse
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{hashes: map[string]string{}, responses: map[string]StoredResponse{}}
}

func (m *memoryIdempotency) Check(ctx context.Context, companyID, userID, endpoint, key, requestHash string) (StoredResponse, bool, error) {
	id := companyID + "|" + userID + "|" + endpoint + "|" + key
	hash, ok := m.hashes[id]
	if !ok {
		return StoredResponse{}, false, nil
	}
	if hash != requestHash {
		return StoredResponse{}, false, ErrIdempotencyConflict
	}
	return m.responses[id], true, nil
}

func (m *memoryIdempotency) Save(ctx context.Context, companyID, userID, endpoint, key, requestHash string, resp StoredResponse) error {
	id := companyID + "|" + userID + "|" + endpoint + "|" + key
	m.hashes[id] = requestHash
	m.responses[id] = resp
	return nil
}

func TestIdempotentReplaysResponse(t *testing.T) {
	calls := 0
	handler := Idempotent(newMemoryIdempotency(), "payments.run")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payments/run", bytes.NewBufferString(body))
		req.Header.Set(IdempotencyHeader, "run-1")
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", CompanyID: "c1", Role: auth.RoleAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"period":"May"}`)
	if first.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("expected first call to run, got %d calls=%d", first.Code, calls)
	}

	second := send(`{"period":"May"}`)
	if second.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("expected replay without running, got %d calls=%d", second.Code, calls)
	}
	if second.Header().Get("Idempotent-Replayed") != "true" || second.Body.String() != `{"success":true}` {
		t.Fatalf("unexpected replay: %v %s", second.Header(), second.Body.String())
	}

	conflict := send(`{"period":"June"}`)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected conflict for different body, got %d", conflict.Code)
	}
}

func TestIdempotentPassesThroughWithoutKey(t *testing.T) {
	calls := 0
	handler := Idempotent(newMemoryIdempotency(), "payments.run")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/payments/run", bytes.NewBufferString(`{}`))
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", CompanyID: "c1"}))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected both calls to run, got %d", calls)
	}
}
