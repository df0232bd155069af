// Package di contains dependency injection tokens for the odds context.
package di

import (
	"github.com/arbstream/arbstream/business/odds/app"
	"github.com/arbstream/arbstream/internal/di"
)

// Public service tokens - exposed to other modules
var (
	OddsService = di.NewToken[*app.OddsService]("odds.OddsService")
)

// Private dependency tokens - internal to the odds module
var (
	Sources = di.NewToken[[]app.Source]("odds:sources")
)

// Helper functions for type-safe access
func GetOddsService(c di.ServiceRegistry) *app.OddsService {
	return di.GetToken(c, OddsService)
}

func GetSources(c di.ServiceRegistry) []app.Source {
	return di.GetToken(c, Sources)
}
