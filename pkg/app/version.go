package app

import (
	goversion "github.com/caarlos0/go-version"
)

// Set with -ldflags "-X github.com/shashiranjanraj/storegraph/pkg/app.version=v1.2.3".
var (
	version   = ""
	commit    = ""
	date      = ""
	builtBy   = ""
	treeState = ""
)

// Version reports build metadata, falling back to what the Go toolchain
// embedded when no ldflags were given.
func Version() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(ServiceName, "GraphQL API over products, orders and users.", "https://github.com/shashiranjanraj/storegraph"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
