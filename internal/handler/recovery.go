package handler

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/tracing"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Recovery turns a panicking handler into a 500, logging the stack and marking the request span as failed
func Recovery(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// Let net/http abort the connection as it would have without us
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			span := trace.SpanFromContext(r.Context())
			span.RecordError(fmt.Errorf("panic: %v", rec))
			span.SetStatus(codes.Error, "panic")

			traceID, spanID := tracing.TraceInfo(r.Context())
			log.Errorw("panic handling request", LogFields(r,
				"trace-id", traceID,
				"span-id", spanID,
				"panic", rec,
				"stacktrace", string(debug.Stack()),
			)...)

			WriteError(w, r, InternalServerError())
		}()

		next.ServeHTTP(w, r)
	})
}
