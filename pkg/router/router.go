// Package router wraps chi with named routes, prefix groups and a route
// table that the route:list command prints.
package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered method/path pair.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	mu     sync.RWMutex
	names  map[string]string
	routes []RouteInfo
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		names: make(map[string]string),
	}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// NotFound sets the handler for unmatched paths.
func (r *Router) NotFound(h http.HandlerFunc) {
	r.mux.NotFound(h)
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler http.Handler, middlewares ...Middleware) {
	r.mount([]string{http.MethodGet}, path, name, handler, middlewares...)
}

func (r *Router) Post(path, name string, handler http.Handler, middlewares ...Middleware) {
	r.mount([]string{http.MethodPost}, path, name, handler, middlewares...)
}

// Match registers one handler for several methods under a single name.
func (r *Router) Match(methods []string, path, name string, handler http.Handler, middlewares ...Middleware) {
	r.mount(methods, path, name, handler, middlewares...)
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.names[name]
	return path, ok
}

func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RouteInfo(nil), r.routes...)
}

func (r *Router) mount(methods []string, path, name string, handler http.Handler, middlewares ...Middleware) {
	r.register(methods, normalizePath(path), name, chain(handler, middlewares...))
}

func (r *Router) register(methods []string, fullPath, name string, h http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range methods {
		r.mux.Method(m, fullPath, h)
		r.routes = append(r.routes, RouteInfo{Method: m, Path: fullPath, Name: name})
	}
	if name != "" {
		r.names[name] = fullPath
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	joined := joinPath(g.prefix, prefix)
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)

	return &Group{
		router:      g.router,
		prefix:      joined,
		middlewares: combined,
	}
}

func (g *Group) Get(path, name string, handler http.Handler, middlewares ...Middleware) {
	g.mount([]string{http.MethodGet}, path, name, handler, middlewares...)
}

func (g *Group) Post(path, name string, handler http.Handler, middlewares ...Middleware) {
	g.mount([]string{http.MethodPost}, path, name, handler, middlewares...)
}

func (g *Group) Match(methods []string, path, name string, handler http.Handler, middlewares ...Middleware) {
	g.mount(methods, path, name, handler, middlewares...)
}

func (g *Group) mount(methods []string, path, name string, handler http.Handler, middlewares ...Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.register(methods, joinPath(g.prefix, path), name, chain(handler, combined...))
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, "/")
		if trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return joinPath(path)
}
