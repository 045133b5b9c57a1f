package oddsapi

import "time"

// SportInfo is one entry of the provider's supported-sport listing.
type SportInfo struct {
	Key          string `json:"key"`
	Group        string `json:"group"`
	Title        string `json:"title"`
	Active       bool   `json:"active"`
	HasOutrights bool   `json:"has_outrights"`
}

// Event is one upstream event with its attached bookmaker quotes.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one provider's priced market set for one event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market is one betting market ("h2h" carries the win/draw/win outcomes).
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one priced outcome within a market. Price is decimal odds.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// LiveEvent is the in-play listing shape: the event plus running score,
// match status, and elapsed clock.
type LiveEvent struct {
	Event
	Status string     `json:"status,omitempty"`
	Scores *ScorePair `json:"scores,omitempty"`
	Time   *Clock     `json:"time,omitempty"`
}

// ScorePair holds the running score; nil sides mean no data yet.
type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Clock is the elapsed match clock.
type Clock struct {
	Minutes int    `json:"minutes"`
	Seconds int    `json:"seconds"`
	Period  string `json:"period"`
}
