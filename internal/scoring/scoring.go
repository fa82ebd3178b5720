// Package scoring turns raw season totals and play counts into the derived values the API reports.
package scoring

import (
	"math"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
)

// Weights are fantasy points per unit of each stat. The field set mirrors config.ScoringConfig
// so a loaded config converts directly.
type Weights struct {
	PassingYard   float64
	PassingTD     float64
	Interception  float64
	RushingYard   float64
	RushingTD     float64
	ReceivingYard float64
	ReceivingTD   float64
	FumbleLost    float64
}

// Standard is non-PPR scoring: 1 point per 25 passing yards, 4 per passing TD, -2 per INT,
// 1 per 10 rushing or receiving yards, 6 per rushing or receiving TD, -2 per fumble lost.
var Standard = Weights{
	PassingYard:   0.04,
	PassingTD:     4,
	Interception:  -2,
	RushingYard:   0.1,
	RushingTD:     6,
	ReceivingYard: 0.1,
	ReceivingTD:   6,
	FumbleLost:    -2,
}

// Points is the season total under w.
func (w Weights) Points(t model.SeasonTotals) float64 {
	return float64(t.PassingYards)*w.PassingYard +
		float64(t.PassingTDs)*w.PassingTD +
		float64(t.Interceptions)*w.Interception +
		float64(t.RushingYards)*w.RushingYard +
		float64(t.RushingTDs)*w.RushingTD +
		float64(t.ReceivingYards)*w.ReceivingYard +
		float64(t.ReceivingTDs)*w.ReceivingTD +
		float64(t.FumblesLost)*w.FumbleLost
}

// PerGame returns Points divided by games played, rounded to two decimals.
// ok is false when no games were played.
func (w Weights) PerGame(t model.SeasonTotals) (value float64, ok bool) {
	if t.GamesPlayed <= 0 {
		return 0, false
	}
	return Round2(w.Points(t) / float64(t.GamesPlayed)), true
}

// Share returns part/whole as a percentage rounded to two decimals.
// ok is false when whole is zero or either side is not finite.
func Share(part, whole float64) (value float64, ok bool) {
	if whole == 0 || math.IsNaN(part) || math.IsNaN(whole) || math.IsInf(part, 0) || math.IsInf(whole, 0) {
		return 0, false
	}
	v := part / whole * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return Round2(v), true
}

// Round2 rounds half away from zero at the second decimal place.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FantasyMetric converts season totals into a metric row.
func (w Weights) FantasyMetric(t model.SeasonTotals) model.PlayerSeasonMetric {
	m := model.PlayerSeasonMetric{Name: t.Name, PlayerID: t.PlayerID, Position: t.Position, Year: t.Year, Team: t.Team}
	if v, ok := w.PerGame(t); ok {
		m.Value = &v
	}
	return m
}

// ShareMetric converts part/whole counts into a metric row.
func ShareMetric(c model.ShareCounts) model.PlayerSeasonMetric {
	m := model.PlayerSeasonMetric{Name: c.Name, PlayerID: c.PlayerID, Position: c.Position, Year: c.Year, Team: c.Team}
	if v, ok := Share(c.Part, c.Whole); ok {
		m.Value = &v
	}
	return m
}
