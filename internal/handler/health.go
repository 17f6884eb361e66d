package handler

import (
	"encoding/json"
	"net/http"

	"github.com/DMarby/bandfilter/internal/health"
)

// StatusReporter reports the latest result of the health checks
type StatusReporter interface {
	Status() health.Status
}

// Health reports the health check status as JSON, answering 503 while any check fails
func Health(reporter StatusReporter) Handler {
	return func(w http.ResponseWriter, r *http.Request) *Error {
		status := reporter.Status()

		body, err := json.Marshal(status)
		if err != nil {
			return InternalServerError()
		}

		w.Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
		w.Header().Set("Content-Type", jsonMediaType)

		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)

		if r.Method != http.MethodHead {
			w.Write(append(body, '\n'))
		}

		return nil
	}
}
