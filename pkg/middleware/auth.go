package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/logger"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
	"github.com/shashiranjanraj/storegraph/pkg/response"
)

// Authenticator turns a bearer token into the identity of a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// Bearer reads "Authorization: Bearer <token>" and, when the token checks
// out, attaches the caller's identity to the request context.
//
// With required=false a missing or bad token is not an error: the request
// continues anonymously and the resolvers' policy decides. With
// required=true the request is answered with 401 before the handler runs.
func Bearer(authn Authenticator, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				if required {
					metrics.AuthFailures.WithLabelValues("missing").Inc()
					response.Unauthorized(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			id, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				log := logger.WithCtx(r.Context())
				if errors.Is(err, auth.ErrInvalidToken) {
					log.Debug("bearer rejected", "error", err)
				} else {
					log.Error("bearer lookup failed", "error", err)
				}

				if required {
					response.Unauthorized(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}
