package postgres

import "fmt"

// Statement names label logs and the query_duration_seconds histogram.
const (
	qTotalRows        = "total_rows"
	qSeasonTotals     = "player_season_totals"
	qQualifiedTotals  = "qualified_season_totals"
	qPlayersByName    = "players_by_name"
	qTargetShare      = "player_target_share"
	qGoalLineCarries  = "player_goalline_carries"
	qSnapCounts       = "player_snap_counts"
	qTouchdownShare   = "player_touchdown_share"
	qTopTouchdowns    = "top_touchdown_share"
	qTopTargets       = "top_target_share"
	qPing             = "ping"
	seasonTotalsField = `p.name, p.player_id, COALESCE(p.position, '') AS position, s.year, s.team,
		COALESCE(s.passing_yards, 0) AS passing_yards, COALESCE(s.passing_tds, 0) AS passing_tds,
		COALESCE(s.interceptions, 0) AS interceptions, COALESCE(s.rushing_yards, 0) AS rushing_yards,
		COALESCE(s.rushing_tds, 0) AS rushing_tds, COALESCE(s.receiving_yards, 0) AS receiving_yards,
		COALESCE(s.receiving_tds, 0) AS receiving_tds, COALESCE(s.fumbles_lost, 0) AS fumbles_lost,
		COALESCE(s.games_played, 0) AS games_played`
)

const totalRowsSQL = `
SELECT COALESCE(SUM(row_count), 0)::bigint AS total_rows
FROM (
	SELECT COUNT(*) AS row_count FROM season
	UNION ALL
	SELECT COUNT(*) AS row_count FROM game
	UNION ALL
	SELECT COUNT(*) AS row_count FROM player
	UNION ALL
	SELECT COUNT(*) AS row_count FROM play
	UNION ALL
	SELECT COUNT(*) AS row_count FROM player_snap_counts
	UNION ALL
	SELECT COUNT(*) AS row_count FROM player_stats
) counts`

var seasonTotalsSQL = `
SELECT ` + seasonTotalsField + `
FROM player_stats s
JOIN player p ON p.player_id = s.player_id
WHERE s.player_id = $1
ORDER BY s.year, s.team`

// $1/$2 are optional year bounds, $3 the minimum number of distinct seasons.
var qualifiedTotalsSQL = `
WITH qualified AS (
	SELECT player_id
	FROM player_stats
	WHERE ($1::int IS NULL OR year >= $1::int)
	  AND ($2::int IS NULL OR year <= $2::int)
	GROUP BY player_id
	HAVING COUNT(DISTINCT year) >= $3
)
SELECT ` + seasonTotalsField + `
FROM player_stats s
JOIN qualified q ON q.player_id = s.player_id
JOIN player p ON p.player_id = s.player_id
WHERE ($1::int IS NULL OR s.year >= $1::int)
  AND ($2::int IS NULL OR s.year <= $2::int)
ORDER BY s.player_id, s.year, s.team`

const playersByNameSQL = `
SELECT p.name, p.player_id, COALESCE(p.position, '') AS position,
	MIN(s.year) AS first_year, MAX(s.year) AS last_year
FROM player p
LEFT JOIN player_stats s ON s.player_id = p.player_id
WHERE p.name ILIKE $1 ESCAPE '\'
GROUP BY p.player_id, p.name, p.position
ORDER BY p.name, p.player_id`

const snapCountsSQL = `
SELECT p.name, p.player_id, COALESCE(p.position, '') AS position, g.year, sc.team,
	SUM(sc.offense_pct)::float8 AS part, COUNT(*)::float8 AS whole
FROM player_snap_counts sc
JOIN game g ON g.game_id = sc.game_id
JOIN player p ON p.player_id = sc.player_id
WHERE sc.player_id = $1
GROUP BY p.name, p.player_id, p.position, g.year, sc.team
ORDER BY g.year, sc.team`

// playShare describes a share metric computed from play-by-play rows: the plays that count
// toward the team total, and the column naming the player credited with each play.
type playShare struct {
	filter       string
	playerColumn string
}

var (
	targetShare    = playShare{filter: "pl.play_type = 'pass'", playerColumn: "receiver_player_id"}
	goalLineShare  = playShare{filter: "pl.play_type = 'run' AND pl.yardline_100 <= 5", playerColumn: "rusher_player_id"}
	touchdownShare = playShare{filter: "pl.td_player_id IS NOT NULL", playerColumn: "td_player_id"}
)

var (
	targetShareSQL    = targetShare.playerSQL()
	goalLineShareSQL  = goalLineShare.playerSQL()
	touchdownShareSQL = touchdownShare.playerSQL()
	topTouchdownsSQL  = touchdownShare.leaderSQL()
	topTargetsSQL     = targetShare.leaderSQL()
)

// playerSQL yields one row per (year, team) the player appears for. $1 is the player id.
// Only constant fragments are formatted in; all caller input stays bound.
func (s playShare) playerSQL() string {
	return fmt.Sprintf(`
WITH player_counts AS (
	SELECT g.year, pl.posteam AS team, COUNT(*) AS n
	FROM play pl
	JOIN game g ON g.game_id = pl.game_id
	WHERE %[1]s AND pl.%[2]s = $1
	GROUP BY g.year, pl.posteam
),
team_counts AS (
	SELECT g.year, pl.posteam AS team, COUNT(*) AS n
	FROM play pl
	JOIN game g ON g.game_id = pl.game_id
	JOIN player_counts pc ON pc.year = g.year AND pc.team = pl.posteam
	WHERE %[1]s
	GROUP BY g.year, pl.posteam
)
SELECT p.name, p.player_id, COALESCE(p.position, '') AS position, pc.year, pc.team,
	pc.n::float8 AS part, COALESCE(tc.n, 0)::float8 AS whole
FROM player_counts pc
JOIN player p ON p.player_id = $1
LEFT JOIN team_counts tc ON tc.year = pc.year AND tc.team = pc.team
ORDER BY pc.year, pc.team`, s.filter, s.playerColumn)
}

// leaderSQL ranks every credited player of one season by share, descending.
// $1 is the year, $2 the row limit, $3 the minimum credited plays.
func (s playShare) leaderSQL() string {
	return fmt.Sprintf(`
WITH player_counts AS (
	SELECT pl.%[2]s AS player_id, pl.posteam AS team, COUNT(*) AS n
	FROM play pl
	JOIN game g ON g.game_id = pl.game_id
	WHERE g.year = $1 AND %[1]s AND pl.%[2]s IS NOT NULL
	GROUP BY pl.%[2]s, pl.posteam
),
team_counts AS (
	SELECT pl.posteam AS team, COUNT(*) AS n
	FROM play pl
	JOIN game g ON g.game_id = pl.game_id
	WHERE g.year = $1 AND %[1]s
	GROUP BY pl.posteam
)
SELECT p.name, p.player_id, COALESCE(p.position, '') AS position, $1::int AS year, pc.team,
	pc.n::float8 AS part, tc.n::float8 AS whole
FROM player_counts pc
JOIN team_counts tc ON tc.team = pc.team
JOIN player p ON p.player_id = pc.player_id
WHERE pc.n >= $3
ORDER BY pc.n::float8 / NULLIF(tc.n, 0) DESC NULLS LAST, pc.n DESC, p.name
LIMIT $2`, s.filter, s.playerColumn)
}
