package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteMatcher maps a request to a low-cardinality route label
type RouteMatcher interface {
	Match(r *http.Request) string
}

// MuxRouteMatcher matches routes for a mux router
type MuxRouteMatcher struct {
	Router *mux.Router
}

// Match returns the mux route name of a given request, falling back to the path template if not set
func (m *MuxRouteMatcher) Match(r *http.Request) string {
	var routeMatch mux.RouteMatch

	// Route is nil when the NotFoundHandler matched
	if !m.Router.Match(r, &routeMatch) || routeMatch.Route == nil {
		return "unknown"
	}

	if routeName := routeMatch.Route.GetName(); routeName != "" {
		return routeName
	}

	if tmpl, err := routeMatch.Route.GetPathTemplate(); err == nil {
		return tmpl
	}

	return "unknown"
}
