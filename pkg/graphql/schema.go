// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema creates a schema from a root query and an optional root
// mutation object.
func NewSchema(query, mutation *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
