package graph

import (
	"github.com/graphql-go/graphql"

	gql "github.com/shashiranjanraj/storegraph/pkg/graphql"
)

// NewSchema builds the schema once; the result is shared by every route.
func NewSchema(cfg Config) (graphql.Schema, error) {
	r := &Resolver{cfg: cfg}
	return gql.NewSchema(r.queryType(), r.mutationType())
}
