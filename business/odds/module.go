// Package odds implements the odds bounded context: sources that quote
// events and the service that fans requests out across them.
package odds

import (
	"context"

	"github.com/arbstream/arbstream/business/odds/app"
	oddsDI "github.com/arbstream/arbstream/business/odds/di"
	"github.com/arbstream/arbstream/business/odds/infra/mock"
	"github.com/arbstream/arbstream/business/odds/infra/theoddsapi"
	"github.com/arbstream/arbstream/business/odds/infra/toto"
	"github.com/arbstream/arbstream/internal/config"
	"github.com/arbstream/arbstream/internal/di"
	"github.com/arbstream/arbstream/internal/logger"
	"github.com/arbstream/arbstream/internal/monolith"
)

// Module implements the odds bounded context.
type Module struct{}

// RegisterServices registers the configured sources and the odds service.
func (m *Module) RegisterServices(c di.Container) error {
	// Register the source set - private dependency
	di.RegisterToken(c, oddsDI.Sources, func(sr di.ServiceRegistry) []app.Source {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var sources []app.Source

		if cfg.OddsAPI.Enabled {
			client, err := theoddsapi.New(theoddsapi.Config{
				APIKey:            cfg.OddsAPI.APIKey,
				BaseURL:           cfg.OddsAPI.BaseURL,
				Region:            cfg.OddsAPI.Region,
				SportKeys:         cfg.OddsAPI.SportKeys,
				RequestsPerMinute: cfg.OddsAPI.RequestsPerMinute,
			}, log)
			if err != nil {
				panic("failed to create odds api client: " + err.Error())
			}
			sources = append(sources, client)
		}

		if cfg.Scraper.Enabled {
			sources = append(sources, toto.New(toto.Config{
				Bookmaker: cfg.Scraper.Bookmaker,
				BaseURL:   cfg.Scraper.BaseURL,
				Timeout:   cfg.Scraper.Timeout,
				Headless:  cfg.Scraper.Headless,
			}, log))
		}

		if cfg.Mock.Enabled {
			for _, bookmaker := range cfg.Mock.Bookmakers {
				sources = append(sources, mock.New(bookmaker, cfg.Mock.ArbBias))
			}
		}

		return sources
	})

	// Register OddsService (public - exposed to other modules)
	di.RegisterToken(c, oddsDI.OddsService, func(sr di.ServiceRegistry) *app.OddsService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewOddsService(oddsDI.GetSources(sr), cfg.Scanner.SourceTimeout, log)
	})

	return nil
}

// Startup initializes the odds module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := oddsDI.GetOddsService(mono.Services())
	log.Info(ctx, "odds module started", "sources", svc.SourceNames())
	return nil
}
