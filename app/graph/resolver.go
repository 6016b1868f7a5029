// Package graph declares the GraphQL schema for products, orders and users
// and binds every field to the record store. Every resolver runs behind the
// same permission guard.
package graph

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/app/services"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
	"github.com/shashiranjanraj/storegraph/pkg/rbac"
)

var tracer = otel.Tracer("github.com/shashiranjanraj/storegraph/app/graph")

// Config is everything the resolvers need. It is read-only once the schema
// has been built.
type Config struct {
	Repos  repositories.Set
	Auth   *services.AuthService
	Policy rbac.Policy
	// UpdateReturnsAfter makes updateProduct return the written document
	// instead of the snapshot taken before the write.
	UpdateReturnsAfter bool
}

// Resolver holds the resolver dependencies.
type Resolver struct {
	cfg Config
}

// guard wraps fn with the permission check, a span and resolver metrics.
func (r *Resolver) guard(field string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()
		if p.Context == nil {
			p.Context = context.Background()
		}

		ctx, span := tracer.Start(p.Context, "graphql."+field)
		defer span.End()
		span.SetAttributes(attribute.String("graphql.field", field))
		p.Context = ctx

		if err := r.cfg.Policy.Check(ctx, field); err != nil {
			span.SetStatus(codes.Error, err.Error())
			metrics.ObserveResolver(field, "denied", start)
			return nil, err
		}

		out, err := fn(p)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.ObserveResolver(field, "error", start)
			return nil, err
		}

		metrics.ObserveResolver(field, "ok", start)
		return out, nil
	}
}
