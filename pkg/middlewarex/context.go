package middlewarex

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

const headerNameTraceID = "X-Trace-Id"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// TraceID takes the trace id from the X-Trace-Id header or generates a new
// one, and echoes it back on the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if traceID == "" {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger stores a request-scoped logger in the context. Must run after TraceID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		attrs := []any{
			logx.Stringer(logx.FieldURL, r.URL),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldIP, r.RemoteAddr),
		}

		if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
			attrs = append(attrs, logx.Stringer(logx.FieldTraceID, traceID))
		}

		ctx = contextx.WithLogger(ctx, logger(ctx).With(attrs...))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
