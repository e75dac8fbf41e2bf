package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	maxRequestIDLength = 128

	ctxKeyRequestID ctxKey = "request_id"
)

// RequestID keeps a caller-supplied X-Request-ID when it is short enough and
// mints one otherwise. The id is echoed back and carried in every envelope.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" || len(reqID) > maxRequestIDLength {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

func GetRequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	return reqID
}
