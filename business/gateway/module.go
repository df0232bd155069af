// Package gateway implements the gateway bounded context: the REST and
// websocket surface over the scanner.
package gateway

import (
	"context"

	arbDI "github.com/arbstream/arbstream/business/arbitrage/di"
	"github.com/arbstream/arbstream/business/gateway/app"
	gatewayDI "github.com/arbstream/arbstream/business/gateway/di"
	"github.com/arbstream/arbstream/internal/config"
	"github.com/arbstream/arbstream/internal/di"
	"github.com/arbstream/arbstream/internal/logger"
	"github.com/arbstream/arbstream/internal/monolith"
)

// Module implements the gateway bounded context.
type Module struct{}

// RegisterServices registers the websocket hub and the HTTP server.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, gatewayDI.Hub, func(sr di.ServiceRegistry) *app.Hub {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewHub(log)
	})

	di.RegisterToken(c, gatewayDI.Server, func(sr di.ServiceRegistry) *app.Server {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewServer(
			app.Config{
				Port:        cfg.Gateway.Port,
				CORSOrigins: cfg.Gateway.CORSOrigins,
			},
			arbDI.GetScanner(sr),
			gatewayDI.GetHub(sr),
			log,
		)
	})

	return nil
}

// Startup starts the HTTP server when the gateway is enabled.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	if !cfg.Gateway.Enabled {
		log.Info(ctx, "gateway disabled, skipping")
		return nil
	}

	srv := gatewayDI.GetServer(mono.Services())
	errc := srv.Start(ctx)
	go func() {
		if err, ok := <-errc; ok && err != nil {
			log.Error(ctx, "gateway server failed", "error", err)
		}
	}()

	log.Info(ctx, "gateway module started", "port", cfg.Gateway.Port)
	return nil
}
