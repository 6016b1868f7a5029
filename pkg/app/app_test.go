package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/rbac"
	"github.com/shashiranjanraj/storegraph/pkg/router"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type harness struct {
	app   *Application
	srv   *httptest.Server
	clock *clock
}

func newHarness(t *testing.T, store Pinger) *harness {
	t.Helper()

	clk := &clock{now: time.Now()}
	a, err := New(Options{
		Repos:  repositories.NewMemorySet(),
		Store:  store,
		Issuer: auth.NewIssuer("app-test", time.Hour).WithClock(clk.Now),
		Policy: rbac.LegacyPolicy(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return &harness{app: a, srv: srv, clock: clk}
}

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (h *harness) post(t *testing.T, path, token, query string) (int, gqlResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, h.srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out gqlResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (h *harness) login(t *testing.T, username string) string {
	t.Helper()

	_, res := h.post(t, "/graphql", "",
		`mutation { registerUser(username: "`+username+`", email: "x@y.z", password: "pw", isAdmin: false) }`)
	require.Empty(t, res.Errors)

	_, res = h.post(t, "/graphql/authenticate", "", `mutation { login(username: "`+username+`", password: "pw") }`)
	require.Empty(t, res.Errors)
	token, ok := res.Data["login"].(string)
	require.True(t, ok)
	return token
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return h.getAccept(t, path, "")
}

func (h *harness) getAccept(t *testing.T, path, accept string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.srv.URL+path, nil)
	require.NoError(t, err)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestGatedRouteAcceptsValidCredential(t *testing.T) {
	h := newHarness(t, nil)
	token := h.login(t, "alice")

	status, res := h.post(t, "/graphql/other", token, `{ getAllOrders { id } me { username } }`)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, res.Errors)
	assert.Equal(t, "alice", res.Data["me"].(map[string]interface{})["username"])
	assert.Empty(t, res.Data["getAllOrders"])
}

func TestGatedRouteRejectsMissingCredential(t *testing.T) {
	h := newHarness(t, nil)

	status, _ := h.post(t, "/graphql/other", "", `{ getAllProduct { id } }`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.post(t, "/graphql/other", "not-a-jwt", `{ getAllProduct { id } }`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPlaygroundOnlyOnOpenRoutes(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/graphql", "/graphql/authenticate"} {
		resp, body := h.getAccept(t, path, "text/html")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, strings.ToLower(body), "playground", path)
	}

	resp, _ := h.getAccept(t, "/graphql/other", "text/html")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCredentialRejectedOnceExpired(t *testing.T) {
	h := newHarness(t, nil)
	token := h.login(t, "bob")

	h.clock.Advance(2 * time.Hour)

	status, _ := h.post(t, "/graphql/other", token, `{ me { username } }`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCredentialRejectedOnceUserDeleted(t *testing.T) {
	h := newHarness(t, nil)
	token := h.login(t, "carol")

	ctx := context.Background()
	u, err := h.app.Repos.Users.FindByUsername(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NoError(t, h.app.Repos.Users.Delete(ctx, u.ID.Hex()))

	status, _ := h.post(t, "/graphql/other", token, `{ me { username } }`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestOpenRoutesRunAnonymously(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/graphql", "/graphql/authenticate"} {
		status, res := h.post(t, path, "", `{ getAllOrders { id } }`)
		assert.Equal(t, http.StatusOK, status, path)
		require.Len(t, res.Errors, 1, path)
		assert.Equal(t, "Unauthenticated", res.Errors[0].Message, path)

		// a bad credential on an open route is ignored, not rejected
		status, res = h.post(t, path, "garbage", `{ getAllProduct { id } }`)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Empty(t, res.Errors, path)
	}
}

func TestOpenRouteAttachesIdentity(t *testing.T) {
	h := newHarness(t, nil)
	token := h.login(t, "dave")

	_, res := h.post(t, "/graphql", token, `{ me { username } }`)
	require.Empty(t, res.Errors)
	assert.Equal(t, "dave", res.Data["me"].(map[string]interface{})["username"])
}

func TestProductRoundTripOverHTTP(t *testing.T) {
	h := newHarness(t, nil)

	_, res := h.post(t, "/graphql", "", `mutation { createProduct(title: "Kettle", price: 10) { id } }`)
	require.Empty(t, res.Errors)
	id := res.Data["createProduct"].(map[string]interface{})["id"].(string)

	_, res = h.post(t, "/graphql", "", `mutation { updateProduct(id: "`+id+`", price: 20) { price } }`)
	require.Empty(t, res.Errors)
	assert.Equal(t, 10.0, res.Data["updateProduct"].(map[string]interface{})["price"])

	_, res = h.post(t, "/graphql", "", `{ getProduct(id: "`+id+`") { price } }`)
	assert.Equal(t, 20.0, res.Data["getProduct"].(map[string]interface{})["price"])
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, pinger{})
	resp, body := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":200,"data":{"store":"ok"}}`, body)

	down := newHarness(t, pinger{err: errors.New("no primary")})
	resp, body = down.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":503,"message":"store unavailable"}`, body)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.getAccept(t, "/", "text/html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/graphql", resp.Request.URL.Path)
	assert.Contains(t, strings.ToLower(body), "playground")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	h.post(t, "/graphql", "", `{ getAllProduct { id } }`)
	resp, body = h.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, "storegraph_http_requests_total"))

	resp, body = h.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"status":404,"message":"Not found"}`, body)
}

func TestRoutes(t *testing.T) {
	h := newHarness(t, nil)
	routes := h.app.Routes()

	assert.Contains(t, routes, router.RouteInfo{Method: http.MethodPost, Path: "/graphql/other", Name: "graphql.other"})
	assert.Contains(t, routes, router.RouteInfo{Method: http.MethodGet, Path: "/healthz", Name: "healthz"})
	assert.Equal(t, "/", routes[0].Path)
}

func TestEnsureIndexesNeedsMongo(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.app.EnsureIndexes(context.Background()), ErrNoIndexes)
}

func TestSeed(t *testing.T) {
	h := newHarness(t, nil)
	var out bytes.Buffer
	require.NoError(t, h.app.Seed(context.Background(), &out))

	_, res := h.post(t, "/graphql", "", `{ getAllProduct { title } }`)
	assert.NotEmpty(t, res.Data["getAllProduct"])
}

func TestVersion(t *testing.T) {
	v := Version()
	assert.Equal(t, ServiceName, v.Name)
}

func TestBootRefusesEmptySecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "memory")

	a, err := Boot(context.Background())
	assert.Nil(t, a)
	require.ErrorIs(t, err, ErrMissingSecret)
	assert.Contains(t, err.Error(), "app: config:")
}

func TestBootMemoryDriverCachesProducts(t *testing.T) {
	t.Setenv("JWT_SECRET", "boot-test")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_EXPORTER", "none")
	t.Setenv("LOG_MONGO_URI", "")

	a, err := Boot(context.Background())
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.IsType(t, &repositories.CachedProductRepository{}, a.Repos.Products)
}
