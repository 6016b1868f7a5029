package app

// pkg/app/server.go: bridges Application → internal/server.

import (
	"context"

	"github.com/shashiranjanraj/storegraph/config"
	"github.com/shashiranjanraj/storegraph/internal/server"
)

// Serve listens on APP_PORT until ctx is cancelled or SIGINT/SIGTERM
// arrives, then drains in-flight requests.
func (a *Application) Serve(ctx context.Context) error {
	return server.Start(ctx, ":"+config.AppPort(), a.Handler())
}
