package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/DMarby/bandfilter/internal/logger"
	"go.uber.org/zap"
)

func TestRecovery(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	h := handler.Recovery(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("panicking handler")
	}))

	tests := []struct {
		Name         string
		Accept       string
		ExpectedBody string
	}{
		{"plain text", "", "Something went wrong\n"},
		{"json", "application/json", "{\"error\":\"Something went wrong\"}\n"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id/1/blur", nil)
			req.Header.Set("Accept", test.Accept)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != http.StatusInternalServerError {
				t.Errorf("wrong status code %d", w.Code)
			}

			if w.Body.String() != test.ExpectedBody {
				t.Errorf("wrong body %q", w.Body.String())
			}

			if w.Header().Get("Cache-Control") != "private, no-cache, no-store, must-revalidate" {
				t.Errorf("wrong cache-control %q", w.Header().Get("Cache-Control"))
			}
		})
	}

	t.Run("repanics on ErrAbortHandler", func(t *testing.T) {
		abort := handler.Recovery(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("wrong panic %v", rec)
			}
		}()

		abort.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
