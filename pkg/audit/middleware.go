package audit

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// statusRecorder captures the response status for the audit entry.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware wraps a mutating handler: it measures duration, captures the
// request line and acting identity, and logs asynchronously. actorFn may
// return "" for unauthenticated entry points.
func Middleware(logger Logger, action string, actorFn func(*http.Request) string, next http.HandlerFunc) http.HandlerFunc {
	if logger == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		entry := &Entry{
			Action:     action,
			RequestID:  uuid.NewString(),
			DurationMs: time.Since(start).Milliseconds(),
		}
		if actorFn != nil {
			entry.ActorID = actorFn(r)
		}
		if params, err := json.Marshal(map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		}); err == nil {
			entry.Parameters = string(params)
		}
		if rec.status >= 400 {
			entry.Status = "error"
			entry.Error = http.StatusText(rec.status)
		}
		logger.LogAsync(entry)
	}
}
