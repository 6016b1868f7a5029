// Package middleware provides the HTTP middleware stack in front of the
// GraphQL endpoints.
package middleware

import "net/http"

// Middleware matches router.Middleware so either can be passed around.
type Middleware = func(http.Handler) http.Handler
