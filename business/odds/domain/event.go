// Package domain contains the core types of the odds context.
package domain

import "time"

// Event is a scannable sporting event as a source reports it. IDs are only
// meaningful to the source that issued them; two sources may use different
// IDs for the same fixture.
type Event struct {
	ID           string
	Name         string // display name, e.g. "Ajax vs PSV"
	Sport        string
	CommenceTime time.Time
}
