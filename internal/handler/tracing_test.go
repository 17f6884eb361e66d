package handler_test

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/tracing/test"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func TestTracer(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	tracer, recorder := test.Recorder(log)

	router := mux.NewRouter()
	router.HandleFunc("/id/{id}/{filter}", func(w http.ResponseWriter, r *http.Request) {}).Name("image")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})

	h := handler.AddRequestID(handler.Tracer(tracer, router, &handler.MuxRouteMatcher{Router: router}))

	for _, path := range []string{"/id/1/blur", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(handler.RequestIDHeader, "upstream-1")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if names := test.SpanNames(recorder); !reflect.DeepEqual(names, []string{"GET image"}) {
		t.Fatalf("wrong spans %v", names)
	}

	var requestID string
	for _, attr := range recorder.Ended()[0].Attributes() {
		if attr.Key == "http.request_id" {
			requestID = attr.Value.AsString()
		}
	}

	if requestID != "upstream-1" {
		t.Errorf("wrong request id attribute %q", requestID)
	}
}
