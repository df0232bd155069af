package theoddsapi

import "time"

// Wire types for The Odds API v4 responses.
// https://the-odds-api.com/liveapi/guides/v4/

type sportDTO struct {
	Key         string `json:"key"`
	Active      bool   `json:"active"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type gameDTO struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []bookmakerDTO `json:"bookmakers"`
}

type bookmakerDTO struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []marketDTO `json:"markets"`
}

type marketDTO struct {
	Key      string       `json:"key"`
	Outcomes []outcomeDTO `json:"outcomes"`
}

type outcomeDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
