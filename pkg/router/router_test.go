package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, s) //nolint:errcheck
	})
}

func tag(v string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", v)
			next.ServeHTTP(w, r)
		})
	}
}

func call(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMatchRegistersEveryMethod(t *testing.T) {
	r := New()
	r.Match([]string{http.MethodGet, http.MethodPost}, "/graphql", "graphql", text("gql"))

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := call(r, m, "/graphql")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "gql", rec.Body.String())
	}
	assert.Equal(t, http.StatusMethodNotAllowed, call(r, http.MethodDelete, "/graphql").Code)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/graphql", Name: "graphql"},
		{Method: http.MethodPost, Path: "/graphql", Name: "graphql"},
	}, r.Routes())
}

func TestGroupPrefixAndMiddlewareOrder(t *testing.T) {
	r := New()
	g := r.Group("/graphql", tag("group"))
	g.Post("/other", "graphql.other", text("ok"), tag("route"))

	rec := call(r, http.MethodPost, "/graphql/other")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Chain"))

	path, ok := r.Path("graphql.other")
	require.True(t, ok)
	assert.Equal(t, "/graphql/other", path)
}

func TestURL(t *testing.T) {
	r := New()
	r.Get("/products/{id}", "products.show", text(""))

	u, err := r.URL("products.show", map[string]string{"id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/products/abc", u)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestNotFound(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusGone) })
	assert.Equal(t, http.StatusGone, call(r, http.MethodGet, "/nope").Code)
}
