// Package di contains dependency injection tokens for the gateway context.
package di

import (
	"github.com/arbstream/arbstream/business/gateway/app"
	"github.com/arbstream/arbstream/internal/di"
)

// Public service tokens - exposed to other modules
var (
	// Hub is public: the arbitrage module wires it into its reporter chain.
	Hub    = di.NewToken[*app.Hub]("gateway.Hub")
	Server = di.NewToken[*app.Server]("gateway.Server")
)

// Helper functions for type-safe access
func GetHub(c di.ServiceRegistry) *app.Hub {
	return di.GetToken(c, Hub)
}

func GetServer(c di.ServiceRegistry) *app.Server {
	return di.GetToken(c, Server)
}
