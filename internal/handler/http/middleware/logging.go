package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// skipPaths mirrors the donor's noise reduction for health checks and the
// like; nothing here carries a request body so there is no sensitive-data
// concern to additionally guard against.
var skipPaths = map[string]bool{
	"/":       true,
	"/health": true,
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs method, path, status, duration and client IP for every
// request not in skipPaths. A user_id field is added only when a principal
// is already in the context of the request this middleware receives; a
// principal that Authn attaches further down the chain does not reach it.
func RequestLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", elapsed),
				zap.String("client_ip", clientIP(r)),
			}
			if principal, ok := PrincipalFromContext(r.Context()); ok {
				fields = append(fields, zap.String("user_id", principal.ID.String()))
			}

			tag := "REQUEST_OK"
			logFn := logger.Info
			switch {
			case rec.status >= 500:
				tag = "REQUEST_SERVER_ERROR"
				logFn = logger.Error
			case rec.status >= 400:
				tag = "REQUEST_CLIENT_ERROR"
				logFn = logger.Warn
			}
			logFn(tag, fields...)
		})
	}
}
