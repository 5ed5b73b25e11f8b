// Package api provides the BFF server for the board's frontend.
//
// It's the main, monolithic package that handles most of all of the wiring for
// the whole app: sessions, entries, likes, comments and uploads.
package api

import (
	"go.uber.org/fx"
)

var Module = fx.Module("api",
	fx.Provide(
		NewServer,
	),
)
