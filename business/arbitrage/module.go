// Package arbitrage implements the arbitrage bounded context: the sure-bet
// engine and the scanner that drives it across odds sources.
package arbitrage

import (
	"context"

	"github.com/arbstream/arbstream/business/arbitrage/app"
	arbDI "github.com/arbstream/arbstream/business/arbitrage/di"
	"github.com/arbstream/arbstream/business/arbitrage/infra"
	gatewayDI "github.com/arbstream/arbstream/business/gateway/di"
	oddsDI "github.com/arbstream/arbstream/business/odds/di"
	"github.com/arbstream/arbstream/internal/config"
	"github.com/arbstream/arbstream/internal/di"
	"github.com/arbstream/arbstream/internal/logger"
	"github.com/arbstream/arbstream/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers the reporter chain and the scanner.
func (m *Module) RegisterServices(c di.Container) error {
	// Register the reporter - private dependency
	di.RegisterToken(c, arbDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		var reporters []app.Reporter
		if cfg.Scanner.TUIMode {
			reporters = append(reporters, infra.NewTUIReporter())
		} else {
			reporters = append(reporters, infra.NewConsoleReporter())
		}
		if cfg.Gateway.Enabled {
			reporters = append(reporters, gatewayDI.GetHub(sr))
		}

		return app.NewMultiReporter(reporters...)
	})

	// Register Scanner (public - exposed to other modules)
	di.RegisterToken(c, arbDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		scanner, err := app.NewScanner(
			oddsDI.GetOddsService(sr),
			cfg.Scanner.Bankroll,
			cfg.Scanner.MaxEvents,
			arbDI.GetReporter(sr),
			log,
		)
		if err != nil {
			panic("failed to create scanner: " + err.Error())
		}
		return scanner
	})

	return nil
}

// Startup initializes the arbitrage module and starts the reporter.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	if err := arbDI.GetReporter(mono.Services()).Start(ctx); err != nil {
		return err
	}

	scanner := arbDI.GetScanner(mono.Services())
	log.Info(ctx, "arbitrage module started",
		"bankroll", scanner.Bankroll(),
		"interval", mono.Config().Scanner.Interval,
	)
	return nil
}
