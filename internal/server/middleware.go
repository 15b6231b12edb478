package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/maruel/admindash/internal/server/reqctx"
	sloghttp "github.com/samber/slog-http"
)

// requestIDHeader carries the request ID in both directions.
const requestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client supplied IDs.
const maxRequestIDLen = 64

// requestID assigns an ID to each request, reusing a short client supplied
// one, and attaches it to the context, the response and the access log.
// It must run inside the sloghttp middleware.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		sloghttp.AddCustomAttributes(r, slog.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), id)))
	})
}
