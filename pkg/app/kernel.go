package app

// pkg/app/kernel.go: builds the http.Handler: global middleware, the
// operational endpoints and the GraphQL routes.

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/storegraph/app/routes"
	"github.com/shashiranjanraj/storegraph/pkg/logger"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
	"github.com/shashiranjanraj/storegraph/pkg/middleware"
	"github.com/shashiranjanraj/storegraph/pkg/reqid"
	"github.com/shashiranjanraj/storegraph/pkg/response"
	"github.com/shashiranjanraj/storegraph/pkg/router"
	"github.com/shashiranjanraj/storegraph/pkg/telemetry"
)

// Router builds the route table with the full middleware stack.
func (a *Application) Router() *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Recovery: catches panics before they kill the goroutine
	//  3. Request ID: inject unique ID before anything logs
	//  4. Logger: logs request_id from context
	//  5. Tracing: server span per request
	//  6. CORS: set CORS headers
	//  7. Rate limiter: reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(telemetry.Middleware(ServiceName))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if a.rateLimit > 0 {
		r.Use(middleware.RateLimit(a.rateLimit, time.Minute, a.proxies))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", http.HandlerFunc(a.healthz))

	routes.RegisterGraphQL(r, a.Schema, a.Auth)
	return r
}

// Handler is the root handler served by the listener.
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}

func (a *Application) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.healthy(r.Context()); err != nil {
		logger.WithCtx(r.Context()).Error("health check failed", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	response.Success(w, map[string]string{"store": "ok"})
}
