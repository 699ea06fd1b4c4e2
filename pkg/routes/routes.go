// Package routes organizes HTTP endpoints into prefixed groups for
// registration against a multiplexer.
package routes

import (
	"fmt"
	"net/http"
	"strings"
)

// Route binds one HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group is a collection of routes under a common URL prefix.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
}

// Register attaches every route of the group to the mux, joining the
// group prefix with each route pattern.
func (g Group) Register(mux *http.ServeMux) {
	for _, r := range g.Routes {
		pattern := g.Prefix + r.Pattern
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			pattern = "/"
		}
		mux.HandleFunc(fmt.Sprintf("%s %s", r.Method, pattern), r.Handler)
	}
}
