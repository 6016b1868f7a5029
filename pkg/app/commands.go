package app

// pkg/app/commands.go: operations behind the CLI sub-commands other than
// serve.

import (
	"context"
	"errors"
	"io"
	"sort"

	"github.com/shashiranjanraj/storegraph/database/seeders"
	"github.com/shashiranjanraj/storegraph/pkg/database"
	"github.com/shashiranjanraj/storegraph/pkg/router"
)

// Routes lists the HTTP routes sorted by path then method.
func (a *Application) Routes() []router.RouteInfo {
	infos := a.Router().Routes()
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].Method < infos[j].Method
	})
	return infos
}

// Seed runs every registered seeder against the configured store.
func (a *Application) Seed(ctx context.Context, out io.Writer) error {
	return seeders.RunAll(ctx, seeders.Deps{Repos: a.Repos, Auth: a.Auth}, out)
}

// ErrNoIndexes is returned by EnsureIndexes for stores without indexes.
var ErrNoIndexes = errors.New("app: the configured store has no indexes")

// EnsureIndexes creates the lookup indexes on a MongoDB store.
func (a *Application) EnsureIndexes(ctx context.Context) error {
	m, ok := a.store.(*database.Mongo)
	if !ok {
		return ErrNoIndexes
	}
	return m.EnsureIndexes(ctx)
}
