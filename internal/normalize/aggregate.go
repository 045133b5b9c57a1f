package normalize

import "github.com/puntaiq/odds-engine/internal/oddsapi"

// Odds is one representative price per outcome, nil when no bookmaker
// quoted that outcome.
type Odds struct {
	Home *float64
	Draw *float64
	Away *float64
}

// Aggregate computes a single representative decimal price per outcome by
// averaging across every bookmaker that quoted it. Only the head-to-head
// market contributes; an outcome matches by home team name, away team name,
// or the literal "Draw". A bookmaker that skips an outcome does not skew
// that outcome's mean.
func Aggregate(bookmakers []oddsapi.Bookmaker, homeTeam, awayTeam string) Odds {
	var sums [3]float64
	var counts [3]int
	const (
		home = iota
		draw
		away
	)

	for _, bm := range bookmakers {
		for _, market := range bm.Markets {
			if market.Key != oddsapi.MarketH2H {
				continue
			}
			for _, outcome := range market.Outcomes {
				switch outcome.Name {
				case homeTeam:
					sums[home] += outcome.Price
					counts[home]++
				case awayTeam:
					sums[away] += outcome.Price
					counts[away]++
				case "Draw":
					sums[draw] += outcome.Price
					counts[draw]++
				}
			}
		}
	}

	mean := func(i int) *float64 {
		if counts[i] == 0 {
			return nil
		}
		v := sums[i] / float64(counts[i])
		return &v
	}
	return Odds{Home: mean(home), Draw: mean(draw), Away: mean(away)}
}
