package api

import (
	"net/http"
	"time"

	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/DMarby/bandfilter/internal/health"
	"github.com/DMarby/bandfilter/internal/hmac"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/tracing"
	"github.com/gorilla/mux"
)

// API is the public catalog api, it lists images and redirects filter requests to signed image service URLs
type API struct {
	Database        database.Provider
	HealthChecker   *health.Checker
	Log             *logger.Logger
	Tracer          *tracing.Tracer
	RootURL         string
	ImageServiceURL string
	HandlerTimeout  time.Duration
	HMAC            *hmac.HMAC
	Workers         int // band workers the image service uses when a request doesn't ask for a count
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")

	// Image list
	router.Handle("/v2/list", handler.Handler(a.listHandler)).Methods("GET").Name("list")

	// Query parameters:
	// ?page={page} - What page to display
	// ?limit={limit} - How many entries to display per page

	// Image info routes
	router.Handle("/id/{id}/info", handler.Handler(a.infoHandler)).Methods("GET").Name("info")

	// Filtered image routes
	router.Handle("/id/{id}/{filter:[a-zA-Z]+}{extension:(?:\\.[a-zA-Z]+)?}", handler.Handler(a.imageRedirectHandler)).Methods("GET").Name("image")
	router.Handle("/seed/{seed}/{filter:[a-zA-Z]+}{extension:(?:\\.[a-zA-Z]+)?}", handler.Handler(a.seedImageRedirectHandler)).Methods("GET").Name("seed")

	// Query parameters:
	// ?r={shift}&g={shift}&b={shift} - Per-channel shift for the shift filter
	// ?kernel={size} - Box blur kernel size, odd
	// ?workers={count} - Number of bands to split the image into
	// ?seed={seed} - Seed for the hole punch filter

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, tracing, metrics, handling panics, request logging, setting CORS headers, and handler execution timeout
	return handler.AddRequestID(
		handler.Tracer(a.Tracer,
			handler.Metrics(
				handler.Recovery(a.Log,
					handler.Logger(a.Log,
						handler.CORS([]string{"Link"},
							http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out."),
						),
					),
				),
				routeMatcher,
			),
			routeMatcher,
		),
	)
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
