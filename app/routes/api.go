package routes

import (
	"net/http"

	"github.com/graphql-go/graphql"

	gql "github.com/shashiranjanraj/storegraph/pkg/graphql"
	"github.com/shashiranjanraj/storegraph/pkg/middleware"
	"github.com/shashiranjanraj/storegraph/pkg/router"
)

var getOrPost = []string{http.MethodGet, http.MethodPost}

// RegisterGraphQL mounts the query endpoints. All three share one schema;
// they differ only in whether a bearer credential is mandatory. Field
// permissions are enforced by the resolvers either way. The playground is
// reachable on the open endpoints; /graphql/other answers 401 to anything
// without a credential, the playground page included.
func RegisterGraphQL(r *router.Router, schema graphql.Schema, authn middleware.Authenticator) {
	optional := router.Middleware(middleware.Bearer(authn, false))
	required := router.Middleware(middleware.Bearer(authn, true))

	r.Get("/", "playground", http.RedirectHandler("/graphql", http.StatusFound))

	h := gql.NewHandler(schema)
	r.Match(getOrPost, "/graphql", "graphql", h, optional)

	g := r.Group("/graphql")
	g.Match(getOrPost, "/authenticate", "graphql.authenticate", h, optional)
	g.Match(getOrPost, "/other", "graphql.other", h, required)
}
