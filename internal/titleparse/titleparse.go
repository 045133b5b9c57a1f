// Package titleparse splits a combined "league - country" style competition
// label into separate league and country fields.
//
// Upstream supplies the competition as a single display title (e.g.
// "Premier League - England", "UEFA Champions League"), so the split is a
// heuristic encoded as an ordered rule list: exact delimiter, then known
// country substrings, then known tournament substrings, then a default.
// Later rules are fallback-only and never shadow an earlier match.
package titleparse

import "strings"

// DefaultCountry is used when no rule matches.
const DefaultCountry = "International"

// Title is the decomposed league/country pair.
type Title struct {
	League  string
	Country string
}

const delimiter = " - "

// countryRules resolve titles that embed a country name without the
// delimiter, e.g. "EFL Championship England".
var countryRules = []string{
	"England", "Scotland", "Spain", "Italy", "Germany", "France",
	"Netherlands", "Portugal", "Belgium", "Turkey", "Greece",
	"Brazil", "Argentina", "Mexico", "Nigeria", "USA", "Japan",
	"Australia",
}

// tournamentRules resolve multinational competitions to a region rather
// than a country.
var tournamentRules = []struct {
	marker  string
	country string
}{
	{"Champions League", "Europe"},
	{"Europa", "Europe"},
	{"UEFA", "Europe"},
	{"World Cup", "International"},
	{"International", "International"},
	{"AFCON", "Africa"},
	{"African Nations", "Africa"},
	{"Copa Libertadores", "South America"},
	{"Copa America", "South America"},
}

// Parse decomposes a raw competition title. Rule order is load-bearing:
// delimiter, known country, known tournament, default.
func Parse(raw string) Title {
	raw = strings.TrimSpace(raw)

	if league, country, ok := strings.Cut(raw, delimiter); ok {
		return Title{
			League:  strings.TrimSpace(league),
			Country: strings.TrimSpace(country),
		}
	}

	for _, country := range countryRules {
		if strings.Contains(raw, country) {
			return Title{League: raw, Country: country}
		}
	}

	for _, rule := range tournamentRules {
		if strings.Contains(raw, rule.marker) {
			return Title{League: raw, Country: rule.country}
		}
	}

	return Title{League: raw, Country: DefaultCountry}
}
