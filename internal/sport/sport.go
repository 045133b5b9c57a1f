// Package sport provides the internal sport enumeration and the translation
// tables between upstream provider vocabulary (sport keys, region codes) and
// that enumeration. Pure lookup logic, no I/O.
package sport

import "strings"

// Sport is the platform-internal sport identifier. Raw provider keys never
// leave this package except through ToProviderKey.
type Sport string

const (
	Football         Sport = "football"
	Basketball       Sport = "basketball"
	Tennis           Sport = "tennis"
	AmericanFootball Sport = "american_football"
	IceHockey        Sport = "ice_hockey"
	Baseball         Sport = "baseball"
	MMA              Sport = "mma"
	Cricket          Sport = "cricket"
)

// All lists every internal sport.
var All = []Sport{
	Football, Basketball, Tennis, AmericanFootball,
	IceHockey, Baseball, MMA, Cricket,
}

// Provider sport keys are namespaced by group: "soccer_epl",
// "basketball_nba", "tennis_atp_french_open". The leading group segment is
// what determines the internal sport.
var groupToSport = map[string]Sport{
	"soccer":           Football,
	"basketball":       Basketball,
	"tennis":           Tennis,
	"americanfootball": AmericanFootball,
	"icehockey":        IceHockey,
	"baseball":         Baseball,
	"mma":              MMA,
	"cricket":          Cricket,
}

// Canonical provider key per internal sport, used when the engine initiates
// a fetch for a sport rather than echoing an upstream key. These match the
// sport list the original cache updater polled.
var sportToKey = map[Sport]string{
	Football:         "soccer",
	Basketball:       "basketball",
	Tennis:           "tennis",
	AmericanFootball: "americanfootball_nfl",
	IceHockey:        "icehockey_nhl",
	Baseball:         "baseball_mlb",
	MMA:              "mma_mixed_martial_arts",
	Cricket:          "cricket",
}

// FromProviderKey translates an upstream sport key into the internal
// enumeration. Unknown keys pass through unchanged so that new upstream
// sports keep flowing before the table is updated.
func FromProviderKey(key string) Sport {
	group := key
	if i := strings.IndexByte(key, '_'); i >= 0 {
		group = key[:i]
	}
	if s, ok := groupToSport[group]; ok {
		return s
	}
	return Sport(key)
}

// ToProviderKey is the inverse of FromProviderKey for known sports; unknown
// sports pass through as-is.
func ToProviderKey(s Sport) string {
	if key, ok := sportToKey[s]; ok {
		return key
	}
	return string(s)
}

// TwoOutcome reports whether the sport has no draw outcome.
func TwoOutcome(s Sport) bool {
	switch s {
	case Basketball, Tennis, Baseball, MMA:
		return true
	}
	return false
}

// --------------------------------------------------------------------------
// Region mapping
// --------------------------------------------------------------------------

// DefaultRegion is used when a user-facing region name is not recognized.
const DefaultRegion = "uk"

var regionAliases = map[string]string{
	"uk":             "uk",
	"united kingdom": "uk",
	"great britain":  "uk",
	"gb":             "uk",
	"us":             "us",
	"usa":            "us",
	"united states":  "us",
	"america":        "us",
	"eu":             "eu",
	"europe":         "eu",
	"au":             "au",
	"australia":      "au",
}

// RegionCode maps a user-facing region name to the provider's region code,
// defaulting to DefaultRegion for unrecognized input.
func RegionCode(name string) string {
	if code, ok := regionAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return DefaultRegion
}
