package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/app/services"
	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/rbac"
)

type fixture struct {
	schema graphql.Schema
	repos  repositories.Set
	auth   *services.AuthService
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()

	repos := repositories.NewMemorySet()
	svc := services.NewAuthService(repos.Users, auth.NewIssuer("graph-test", 24*time.Hour))
	cfg := Config{Repos: repos, Auth: svc, Policy: rbac.LegacyPolicy()}
	if mutate != nil {
		mutate(&cfg)
	}

	schema, err := NewSchema(cfg)
	require.NoError(t, err)
	return &fixture{schema: schema, repos: repos, auth: svc}
}

func (f *fixture) do(ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         f.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func data(t *testing.T, res *graphql.Result) map[string]interface{} {
	t.Helper()
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	return res.Data.(map[string]interface{})
}

func errMessage(t *testing.T, res *graphql.Result) string {
	t.Helper()
	require.True(t, res.HasErrors(), "expected an error, got data %v", res.Data)
	return res.Errors[0].Message
}

const createLamp = `mutation {
  createProduct(title: "Lamp", brand: "Lumo", category: "lighting", description: "desk lamp",
    discountPercentage: 12.5, images: "a.png", price: 10, rating: 4.2, stock: 7, thumbnail: "t.png") {
    id title brand category description discountPercentage images price rating stock thumbnail
  }
}`

func TestCreateProductIsRetrievable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	created := data(t, f.do(ctx, createLamp, nil))["createProduct"].(map[string]interface{})
	assert.Equal(t, "Lamp", created["title"])
	assert.Equal(t, "Lumo", created["brand"])
	assert.Equal(t, "lighting", created["category"])
	assert.Equal(t, "desk lamp", created["description"])
	assert.Equal(t, 12.5, created["discountPercentage"])
	assert.Equal(t, "a.png", created["images"])
	assert.Equal(t, 10.0, created["price"])
	assert.Equal(t, 4.2, created["rating"])
	assert.Equal(t, 7, created["stock"])
	assert.Equal(t, "t.png", created["thumbnail"])

	id, ok := created["id"].(string)
	require.True(t, ok)
	require.True(t, primitive.IsValidObjectID(id))

	got := data(t, f.do(ctx, `query($id: String) { getProduct(id: $id) { id title price stock } }`,
		map[string]interface{}{"id": id}))["getProduct"].(map[string]interface{})
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "Lamp", got["title"])
	assert.Equal(t, 10.0, got["price"])
	assert.Equal(t, 7, got["stock"])
}

func TestCreateProductWithoutFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first := data(t, f.do(ctx, `mutation { createProduct { id title price } }`, nil))["createProduct"].(map[string]interface{})
	assert.Nil(t, first["title"])
	assert.Nil(t, first["price"])

	second := data(t, f.do(ctx, `mutation { createProduct { id } }`, nil))["createProduct"].(map[string]interface{})
	assert.NotEqual(t, first["id"], second["id"], "no duplicate detection")

	list := data(t, f.do(ctx, `{ getAllProduct(id: "ignored") { id } }`, nil))["getAllProduct"].([]interface{})
	assert.Len(t, list, 2)
}

func TestGetProductMissingAndMalformed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res := data(t, f.do(ctx, fmt.Sprintf(`{ getProduct(id: %q) { id } }`, primitive.NewObjectID().Hex()), nil))
	assert.Nil(t, res["getProduct"])

	msg := errMessage(t, f.do(ctx, `{ getProduct(id: "bogus") { id } }`, nil))
	assert.Contains(t, msg, "invalid id")
}

func TestUpdateProductReturnsPreviousState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id := data(t, f.do(ctx, `mutation { createProduct(title: "Mug", price: 10) { id } }`, nil))["createProduct"].(map[string]interface{})["id"].(string)

	upd := data(t, f.do(ctx, `mutation($id: String) { updateProduct(id: $id, price: 20) { id title price } }`,
		map[string]interface{}{"id": id}))["updateProduct"].(map[string]interface{})
	assert.Equal(t, 10.0, upd["price"])
	assert.Equal(t, id, upd["id"])

	got := data(t, f.do(ctx, `query($id: String) { getProduct(id: $id) { title price } }`,
		map[string]interface{}{"id": id}))["getProduct"].(map[string]interface{})
	assert.Equal(t, 20.0, got["price"])
	assert.Equal(t, "Mug", got["title"])
}

func TestUpdateProductCanReturnNewState(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.UpdateReturnsAfter = true })
	ctx := context.Background()

	id := data(t, f.do(ctx, `mutation { createProduct(price: 10) { id } }`, nil))["createProduct"].(map[string]interface{})["id"].(string)

	upd := data(t, f.do(ctx, `mutation($id: String) { updateProduct(id: $id, price: 20) { price } }`,
		map[string]interface{}{"id": id}))["updateProduct"].(map[string]interface{})
	assert.Equal(t, 20.0, upd["price"])
}

func TestUpdateProductUnknownID(t *testing.T) {
	f := newFixture(t, nil)
	res := data(t, f.do(context.Background(),
		fmt.Sprintf(`mutation { updateProduct(id: %q, price: 1) { id } }`, primitive.NewObjectID().Hex()), nil))
	assert.Nil(t, res["updateProduct"])
}

func TestDeleteProductEchoesArgs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id := data(t, f.do(ctx, `mutation { createProduct(title: "Pen") { id } }`, nil))["createProduct"].(map[string]interface{})["id"].(string)
	q := `mutation($id: String) { deleteProduct(id: $id) { id title } }`
	vars := map[string]interface{}{"id": id}

	for i := 0; i < 2; i++ {
		del := data(t, f.do(ctx, q, vars))["deleteProduct"].(map[string]interface{})
		assert.Equal(t, id, del["id"])
		assert.Nil(t, del["title"], "the deleted document is not returned")
	}

	got := data(t, f.do(ctx, `query($id: String) { getProduct(id: $id) { id } }`, vars))
	assert.Nil(t, got["getProduct"])
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	reg := data(t, f.do(ctx, `mutation { registerUser(username: "alice", email: "a@x.io", password: "pw", isAdmin: false) }`, nil))
	assert.Equal(t, services.RegisteredMessage, reg["registerUser"])

	assert.Equal(t, "User not found",
		errMessage(t, f.do(ctx, `mutation { login(username: "bob", password: "pw") }`, nil)))
	assert.Equal(t, "Incorrect password",
		errMessage(t, f.do(ctx, `mutation { login(username: "alice", password: "nope") }`, nil)))

	tok := data(t, f.do(ctx, `mutation { login(username: "alice", password: "pw") }`, nil))["login"]
	s, ok := tok.(string)
	require.True(t, ok)
	assert.NotEmpty(t, s)
}

func TestUserQueriesHidePassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "alice", "a@x.io", "pw", true)
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, "bob", "b@x.io", "pw", false)
	require.NoError(t, err)

	u := data(t, f.do(ctx, `{ getUser(username: "alice") { id username email isAdmin } }`, nil))["getUser"].(map[string]interface{})
	assert.Equal(t, "alice", u["username"])
	assert.Equal(t, "a@x.io", u["email"])
	assert.Equal(t, true, u["isAdmin"])

	res := f.do(ctx, `{ getUser(username: "alice") { password } }`, nil)
	assert.True(t, res.HasErrors())

	all := data(t, f.do(ctx, `{ getAllUsers { username } }`, nil))["getAllUsers"].([]interface{})
	assert.Len(t, all, 2)

	one := data(t, f.do(ctx, `query($id: String) { getAllUsers(id: $id) { username } }`,
		map[string]interface{}{"id": u["id"]}))["getAllUsers"].([]interface{})
	require.Len(t, one, 1)
	assert.Equal(t, "alice", one[0].(map[string]interface{})["username"])

	missing := data(t, f.do(ctx, `{ getUser(username: "zed") { id } }`, nil))
	assert.Nil(t, missing["getUser"])
}

func TestGetAllOrdersRequiresIdentity(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for _, q := range []string{
		`{ getAllOrders { id } }`,
		`{ getAllOrders(id: "someone") { id } }`,
	} {
		assert.Equal(t, "Unauthenticated", errMessage(t, f.do(ctx, q, nil)))
	}
}

func TestGetAllOrdersFiltersByUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.repos.Orders.Create(ctx, &models.Order{UserID: "u1"}))
	require.NoError(t, f.repos.Orders.Create(ctx, &models.Order{UserID: "u2"}))
	require.NoError(t, f.repos.Orders.Create(ctx, &models.Order{UserID: "u1"}))

	authed := auth.WithIdentity(ctx, &auth.Identity{UserID: "u1"})

	mine := data(t, f.do(authed, `{ getAllOrders { id userId } }`, nil))["getAllOrders"].([]interface{})
	require.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, "u1", o.(map[string]interface{})["userId"])
	}

	theirs := data(t, f.do(authed, `{ getAllOrders(id: "u2") { userId } }`, nil))["getAllOrders"].([]interface{})
	assert.Len(t, theirs, 1)
}

func TestMe(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "dora", "d@x.io", "pw", false)
	require.NoError(t, err)
	tok, err := f.auth.Login(ctx, "dora", "pw")
	require.NoError(t, err)
	id, err := f.auth.Authenticate(ctx, tok)
	require.NoError(t, err)

	assert.Equal(t, "Unauthenticated", errMessage(t, f.do(ctx, `{ me { username } }`, nil)))

	me := data(t, f.do(auth.WithIdentity(ctx, id), `{ me { username } }`, nil))["me"].(map[string]interface{})
	assert.Equal(t, "dora", me["username"])
}

func TestStrictPolicy(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Policy = rbac.StrictPolicy() })
	ctx := context.Background()

	assert.Equal(t, "Unauthenticated", errMessage(t, f.do(ctx, `mutation { createProduct(title: "x") { id } }`, nil)))

	user := auth.WithIdentity(ctx, &auth.Identity{UserID: "u1"})
	assert.Equal(t, "Forbidden", errMessage(t, f.do(user, `mutation { createProduct(title: "x") { id } }`, nil)))
	assert.Equal(t, "Forbidden", errMessage(t, f.do(user, `{ getAllUsers { id } }`, nil)))

	admin := auth.WithIdentity(ctx, &auth.Identity{UserID: "u2", IsAdmin: true})
	created := data(t, f.do(admin, `mutation { createProduct(title: "x") { title } }`, nil))["createProduct"].(map[string]interface{})
	assert.Equal(t, "x", created["title"])

	// reads and login stay public
	data(t, f.do(ctx, `{ getAllProduct { id } }`, nil))
}
