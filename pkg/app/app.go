// Package app wires storegraph together: it opens the record store and the
// optional read cache, builds the auth service and the GraphQL schema, and
// exposes the HTTP handler and the CLI operations on top of them.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close(ctx)
//	return a.Serve(ctx)
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storegraph/app/graph"
	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/app/services"
	"github.com/shashiranjanraj/storegraph/config"
	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/cache"
	"github.com/shashiranjanraj/storegraph/pkg/database"
	"github.com/shashiranjanraj/storegraph/pkg/logger"
	"github.com/shashiranjanraj/storegraph/pkg/middleware"
	"github.com/shashiranjanraj/storegraph/pkg/rbac"
	"github.com/shashiranjanraj/storegraph/pkg/telemetry"
)

// ServiceName names the process in traces and logs.
const ServiceName = "storegraph"

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options are the resolved dependencies of an Application. Boot fills them
// from config; tests build them directly.
type Options struct {
	Repos  repositories.Set
	Store  Pinger // nil means nothing to check
	Issuer *auth.Issuer
	Policy rbac.Policy

	UpdateReturnsAfter bool
	RateLimit          int
	// TrustedProxies may set X-Forwarded-For; nil trusts none.
	TrustedProxies middleware.Proxies
}

// ErrMissingSecret is returned by Boot when JWT_SECRET is empty.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// Application is the assembled service.
type Application struct {
	Repos  repositories.Set
	Auth   *services.AuthService
	Schema graphql.Schema

	store     Pinger
	rateLimit int
	proxies   middleware.Proxies
	closers   []func(context.Context) error
}

// New builds the schema and services over already-opened dependencies.
func New(opts Options) (*Application, error) {
	authSvc := services.NewAuthService(opts.Repos.Users, opts.Issuer)

	schema, err := graph.NewSchema(graph.Config{
		Repos:              opts.Repos,
		Auth:               authSvc,
		Policy:             opts.Policy,
		UpdateReturnsAfter: opts.UpdateReturnsAfter,
	})
	if err != nil {
		return nil, fmt.Errorf("app: schema: %w", err)
	}

	return &Application{
		Repos:     opts.Repos,
		Auth:      authSvc,
		Schema:    schema,
		store:     opts.Store,
		rateLimit: opts.RateLimit,
		proxies:   opts.TrustedProxies,
	}, nil
}

// Boot opens everything the config asks for. On failure whatever was
// already opened is closed again.
func Boot(ctx context.Context) (a *Application, err error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("app: config: %w", err)
	}
	secret := config.JWTSecret()
	if secret == "" {
		return nil, fmt.Errorf("app: config: %w", ErrMissingSecret)
	}
	proxies, err := middleware.ParseProxies(config.TrustedProxies())
	if err != nil {
		return nil, fmt.Errorf("app: config: %w", err)
	}

	var closers []func(context.Context) error
	defer func() {
		if err != nil {
			runClosers(context.Background(), closers)
		}
	}()

	if uri := config.LogMongoURI(); uri != "" {
		flush, err := logger.EnableMongoSink(uri, config.LogMongoDB(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			closers = append(closers, func(context.Context) error { flush(); return nil })
		}
	}

	shutdownTracing, err := telemetry.Init(ctx, ServiceName, Version().GitVersion, config.OTelExporter(), config.OTelEndpoint())
	if err != nil {
		return nil, err
	}
	closers = append(closers, shutdownTracing)

	repos, store, storeClosers, err := openStore(ctx)
	closers = append(closers, storeClosers...)
	if err != nil {
		return nil, err
	}

	policy := rbac.LegacyPolicy()
	if config.StrictPolicy() {
		policy = rbac.StrictPolicy()
	}

	a, err = New(Options{
		Repos:              repos,
		Store:              store,
		Issuer:             auth.NewIssuer(secret, config.TokenTTL()),
		Policy:             policy,
		UpdateReturnsAfter: config.UpdateReturns() == config.UpdateReturnsAfter,
		RateLimit:          config.RateLimit(),
		TrustedProxies:     proxies,
	})
	if err != nil {
		return nil, err
	}
	a.closers = closers

	logger.Info("application booted",
		"driver", config.DatabaseDriver(),
		"cache", cacheKind(),
		"strict_policy", config.StrictPolicy(),
		"update_returns", config.UpdateReturns(),
	)
	return a, nil
}

// openStore picks the repository implementation and wraps product reads
// with the Redis cache when one is configured, or with the in-process
// cache for the memory driver.
func openStore(ctx context.Context) (repositories.Set, Pinger, []func(context.Context) error, error) {
	var (
		repos   repositories.Set
		store   Pinger
		closers []func(context.Context) error
	)

	switch config.DatabaseDriver() {
	case "memory":
		repos = repositories.NewMemorySet()
	default:
		m, err := database.Connect(ctx, config.MongoURI(), config.MongoDB())
		if err != nil {
			return repos, nil, nil, err
		}
		closers = append(closers, m.Close)
		repos = repositories.NewMongoSet(m.DB)
		store = m
	}

	if addr := config.RedisAddr(); addr != "" {
		rs, err := cache.ConnectRedis(ctx, addr, config.RedisPassword())
		if err != nil {
			// The cache is an optimisation; serve uncached rather than not at all.
			logger.Warn("product cache disabled", "error", err)
		} else {
			closers = append(closers, func(context.Context) error { return rs.Close() })
			repos.Products = repositories.NewCachedProductRepository(repos.Products, rs, config.CacheTTL())
		}
	} else if config.DatabaseDriver() == "memory" {
		// Single process: an in-process cache sees every write.
		repos.Products = repositories.NewCachedProductRepository(repos.Products, cache.NewMemoryStore(), config.CacheTTL())
	}

	return repos, store, closers, nil
}

// Close releases connections in reverse order of opening.
func (a *Application) Close(ctx context.Context) error {
	return runClosers(ctx, a.closers)
}

func runClosers(ctx context.Context, closers []func(context.Context) error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// healthy pings the store with a short deadline.
func (a *Application) healthy(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.store.Ping(ctx)
}

func cacheKind() string {
	switch {
	case config.RedisAddr() != "":
		return "redis"
	case config.DatabaseDriver() == "memory":
		return "memory"
	}
	return "none"
}
