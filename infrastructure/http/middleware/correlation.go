package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/verdeo/auth-service/infrastructure/service/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID ensures every request carries a correlation ID, propagated to
// the response header and the request context for logging.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, cid)

		ctx := context.WithValue(r.Context(), logger.CorrelationIDKey, cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
