// Package model contains domain entities and DTOs used across layers.
// Types here are read models: nothing in this service writes them back.
package model

// Player is one NFL player.
type Player struct {
	PlayerID string `json:"PLAYERID" db:"player_id"`
	Name     string `json:"NAME" db:"name"`
	Position string `json:"POSITION" db:"position"`
}

// SeasonTotals is one player_stats row (player, year, team) joined with the player.
type SeasonTotals struct {
	Name           string `db:"name"`
	PlayerID       string `db:"player_id"`
	Position       string `db:"position"`
	Year           int    `db:"year"`
	Team           string `db:"team"`
	PassingYards   int    `db:"passing_yards"`
	PassingTDs     int    `db:"passing_tds"`
	Interceptions  int    `db:"interceptions"`
	RushingYards   int    `db:"rushing_yards"`
	RushingTDs     int    `db:"rushing_tds"`
	ReceivingYards int    `db:"receiving_yards"`
	ReceivingTDs   int    `db:"receiving_tds"`
	FumblesLost    int    `db:"fumbles_lost"`
	GamesPlayed    int    `db:"games_played"`
}

// ShareCounts carries the numerator and denominator behind a percentage metric
// for one player in one season-team. Whole may be zero.
type ShareCounts struct {
	Name     string  `db:"name"`
	PlayerID string  `db:"player_id"`
	Position string  `db:"position"`
	Year     int     `db:"year"`
	Team     string  `db:"team"`
	Part     float64 `db:"part"`
	Whole    float64 `db:"whole"`
}

// PlayerSeasonMetric is one derived value for a player-season-team.
// A nil Value means the denominator was zero: no data, not an error.
type PlayerSeasonMetric struct {
	Name     string
	PlayerID string
	Position string
	Year     int
	Team     string
	Value    *float64
}

// PlayerLookup is a name search hit with the span of seasons the player has stats for.
type PlayerLookup struct {
	Name      string `json:"NAME" db:"name"`
	PlayerID  string `json:"PLAYERID" db:"player_id"`
	Position  string `json:"POSITION" db:"position"`
	FirstYear *int   `json:"FIRSTYEAR" db:"first_year"`
	LastYear  *int   `json:"LASTYEAR" db:"last_year"`
}

// SeasonWindow selects players for the fantasy leaderboard.
// Nil bounds leave that side of the window open.
type SeasonWindow struct {
	From       *int
	To         *int
	MinSeasons int
	Limit      int
}

// LeaderQuery selects a single-season leaderboard for a share metric.
type LeaderQuery struct {
	Year    int
	Limit   int
	Minimum int
}

// Metric describes how a derived value is named on the wire and drawn on a chart.
type Metric struct {
	Column    string
	Title     string
	Percent   bool
	TeamLabel bool
}

var (
	FantasyPointsPerGame   = Metric{Column: "FANTASYPOINTSPERGAME", Title: "Fantasy Points"}
	TargetShare            = Metric{Column: "TARGETSHAREPERCENTAGE", Title: "Target Share Percentage", Percent: true, TeamLabel: true}
	GoalLineCarryShare     = Metric{Column: "GOALLINECARRYPERCENTAGE", Title: "Goal-Line Carry Percentage", Percent: true, TeamLabel: true}
	SnapCountShare         = Metric{Column: "SNAPCOUNTPERCENTAGEPERGAME", Title: "Snap Count percentage", Percent: true, TeamLabel: true}
	TouchdownShare         = Metric{Column: "TOUCHDOWNPERCENTAGE", Title: "Touchdown Percentage", Percent: true, TeamLabel: true}
	TopFantasyPointsSeason = Metric{Column: "FANTASYPOINTSPERGAME", Title: "Fantasy Points", TeamLabel: true}
)
