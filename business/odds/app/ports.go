// Package app contains application services and port definitions for the
// odds context.
package app

import (
	"context"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/business/odds/domain"
)

// Source is the port every odds provider implements: live APIs, scrapers and
// the mock generator all look the same to the rest of the system.
//
// Implementations map their own failure modes onto apperror codes
// (CodeSourceUnauthorized, CodeSourceRateLimited, CodeSourceNetworkError,
// CodeSourceMalformedData) so callers can react per kind without knowing the
// provider.
type Source interface {
	// FetchOdds returns the source's current outcomes for one event. The
	// returned markets are raw: callers filter and aggregate them.
	FetchOdds(ctx context.Context, eventID string) ([]arbdomain.Outcome, error)

	// ListEvents returns the events the source can currently quote.
	ListEvents(ctx context.Context) ([]domain.Event, error)

	// BookmakerName identifies the source in outcomes, logs and reports.
	BookmakerName() string
}
