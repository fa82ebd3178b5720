package contract

import (
	"context"
	"math"
	"testing"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/DanNano/FFQueryAnalyzer/internal/scoring"
)

// Fixture player ids.
const (
	BradyID   = "00-0032765"
	EdelmanID = "00-0000001"
	MichelID  = "00-0000002"
	GhostID   = "00-0000003"
	UnknownID = "00-9999999"
)

// FixtureRowCount is the number of rows FixtureSQL inserts across all tables.
const FixtureRowCount = 27

// FixtureSQL seeds a small, hand-countable dataset. Statements run in order.
//
// 2019 NE: 5 passes (Edelman 4, Michel 1), 3 goal-line runs (Michel 2, Brady 1),
// 3 touchdowns (one each). 2020 TB: 1 goal-line run (Brady).
var FixtureSQL = []string{
	`INSERT INTO season (year) VALUES (2019), (2020)`,
	`INSERT INTO game (game_id, year, week, home_team, away_team) VALUES
		('2019_01_PIT_NE', 2019, 1, 'NE', 'PIT'),
		('2019_02_NE_MIA', 2019, 2, 'MIA', 'NE'),
		('2020_01_TB_NO', 2020, 1, 'NO', 'TB')`,
	`INSERT INTO player (player_id, name, position) VALUES
		('00-0032765', 'Tom Brady', 'QB'),
		('00-0000001', 'Julian Edelman', 'WR'),
		('00-0000002', 'Sony Michel', 'RB'),
		('00-0000003', 'Ghost Player', NULL)`,
	`INSERT INTO play (play_id, game_id, play_type, posteam, rusher_player_id, receiver_player_id, td_player_id, yardline_100) VALUES
		(1, '2019_01_PIT_NE', 'pass', 'NE', NULL, '00-0000001', NULL, 75),
		(2, '2019_01_PIT_NE', 'pass', 'NE', NULL, '00-0000002', NULL, 70),
		(3, '2019_01_PIT_NE', 'pass', 'NE', NULL, '00-0000001', NULL, 40),
		(4, '2019_01_PIT_NE', 'run', 'NE', '00-0000002', NULL, NULL, 3),
		(5, '2019_01_PIT_NE', 'run', 'NE', '00-0000002', NULL, NULL, 20),
		(6, '2019_01_PIT_NE', 'pass', 'NE', NULL, '00-0000001', '00-0000001', 12),
		(7, '2019_01_PIT_NE', 'run', 'NE', '00-0032765', NULL, '00-0032765', 1),
		(1, '2019_02_NE_MIA', 'pass', 'NE', NULL, '00-0000001', NULL, 65),
		(2, '2019_02_NE_MIA', 'run', 'NE', '00-0000002', NULL, '00-0000002', 2),
		(1, '2020_01_TB_NO', 'pass', 'TB', NULL, NULL, NULL, 80),
		(2, '2020_01_TB_NO', 'run', 'TB', '00-0032765', NULL, NULL, 4)`,
	`INSERT INTO player_snap_counts (player_id, game_id, team, offense_pct) VALUES
		('00-0032765', '2019_01_PIT_NE', 'NE', 1.0),
		('00-0000001', '2019_01_PIT_NE', 'NE', 0.9),
		('00-0000001', '2019_02_NE_MIA', 'NE', 0.8)`,
	`INSERT INTO player_stats (player_id, year, team, passing_yards, passing_tds, interceptions,
		rushing_yards, rushing_tds, receiving_yards, receiving_tds, fumbles_lost, games_played) VALUES
		('00-0032765', 2019, 'NE', 4000, 30, 10, 50, 0, 0, 0, 0, 16),
		('00-0032765', 2020, 'TB', 4633, 40, 12, 6, 3, 0, 0, 1, 16),
		('00-0000001', 2019, 'NE', 0, 0, 0, 106, 0, 1117, 6, 2, 16),
		('00-0000002', 2019, 'NE', 0, 0, 0, 912, 7, 94, 0, 1, 16)`,
}

// AnalyticsFactory returns a repository backed by a database seeded with FixtureSQL.
type AnalyticsFactory func(t *testing.T) (repo repository.AnalyticsRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunAnalyticsRepositoryContract(t *testing.T, makeRepo AnalyticsFactory) {
	t.Helper()

	setup := func(t *testing.T) repository.AnalyticsRepository {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		return repo
	}

	t.Run("count_all_rows", func(t *testing.T) {
		repo := setup(t)
		got, err := repo.CountAllRows(context.Background())
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if got != FixtureRowCount {
			t.Fatalf("expected %d rows, got %d", FixtureRowCount, got)
		}
	})

	t.Run("season_totals_by_player", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.SeasonTotalsByPlayer(context.Background(), BradyID)
		if err != nil {
			t.Fatalf("season totals failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 seasons, got %d", len(rows))
		}
		want := model.SeasonTotals{
			Name: "Tom Brady", PlayerID: BradyID, Position: "QB", Year: 2019, Team: "NE",
			PassingYards: 4000, PassingTDs: 30, Interceptions: 10, RushingYards: 50, GamesPlayed: 16,
		}
		if rows[0] != want {
			t.Fatalf("unexpected 2019 row: %+v", rows[0])
		}
		if rows[1].Year != 2020 || rows[1].Team != "TB" {
			t.Fatalf("expected 2020 TB second, got %+v", rows[1])
		}
		if fppg, ok := scoring.Standard.PerGame(rows[0]); !ok || fppg != 16.56 {
			t.Fatalf("expected 16.56 fantasy points per game, got %v (ok=%v)", fppg, ok)
		}
	})

	t.Run("season_totals_unknown_player_is_empty", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.SeasonTotalsByPlayer(context.Background(), UnknownID)
		if err != nil {
			t.Fatalf("season totals failed: %v", err)
		}
		if rows == nil || len(rows) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", rows)
		}
	})

	t.Run("qualified_season_totals", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()

		rows, err := repo.QualifiedSeasonTotals(ctx, model.SeasonWindow{MinSeasons: 2, Limit: 10})
		if err != nil {
			t.Fatalf("qualified totals failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected only the two-season player, got %d rows", len(rows))
		}
		for _, r := range rows {
			if r.PlayerID != BradyID {
				t.Fatalf("unexpected player %s", r.PlayerID)
			}
		}

		year := 2019
		rows, err = repo.QualifiedSeasonTotals(ctx, model.SeasonWindow{From: &year, To: &year, MinSeasons: 1, Limit: 10})
		if err != nil {
			t.Fatalf("qualified totals failed: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected three 2019 rows, got %d", len(rows))
		}

		rows, err = repo.QualifiedSeasonTotals(ctx, model.SeasonWindow{From: &year, To: &year, MinSeasons: 2, Limit: 10})
		if err != nil {
			t.Fatalf("qualified totals failed: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("nobody has two seasons inside 2019, got %d rows", len(rows))
		}
	})

	t.Run("players_by_name", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()

		hits, err := repo.PlayersByName(ctx, "bRaDy")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if len(hits) != 1 || hits[0].PlayerID != BradyID {
			t.Fatalf("expected Brady, got %+v", hits)
		}
		if hits[0].FirstYear == nil || *hits[0].FirstYear != 2019 || hits[0].LastYear == nil || *hits[0].LastYear != 2020 {
			t.Fatalf("unexpected season span: %+v", hits[0])
		}

		hits, err = repo.PlayersByName(ctx, "ghost")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if len(hits) != 1 || hits[0].FirstYear != nil || hits[0].Position != "" {
			t.Fatalf("expected ghost without seasons, got %+v", hits)
		}

		for _, name := range []string{"%", "_", "nobody"} {
			hits, err = repo.PlayersByName(ctx, name)
			if err != nil {
				t.Fatalf("lookup %q failed: %v", name, err)
			}
			if len(hits) != 0 {
				t.Fatalf("lookup %q should match literally, got %+v", name, hits)
			}
		}
	})

	t.Run("target_counts", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.TargetCounts(context.Background(), EdelmanID)
		if err != nil {
			t.Fatalf("targets failed: %v", err)
		}
		expectShares(t, rows, share{2019, "NE", 4, 5})
	})

	t.Run("goal_line_carry_counts", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.GoalLineCarryCounts(context.Background(), BradyID)
		if err != nil {
			t.Fatalf("goal-line failed: %v", err)
		}
		expectShares(t, rows, share{2019, "NE", 1, 3}, share{2020, "TB", 1, 1})
	})

	t.Run("snap_counts", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.SnapCounts(context.Background(), EdelmanID)
		if err != nil {
			t.Fatalf("snaps failed: %v", err)
		}
		expectShares(t, rows, share{2019, "NE", 1.7, 2})
	})

	t.Run("touchdown_counts", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.TouchdownCounts(context.Background(), MichelID)
		if err != nil {
			t.Fatalf("touchdowns failed: %v", err)
		}
		expectShares(t, rows, share{2019, "NE", 1, 3})
	})

	t.Run("share_counts_unknown_player_is_empty", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()
		for name, fn := range map[string]func(context.Context, string) ([]model.ShareCounts, error){
			"targets":    repo.TargetCounts,
			"goal_line":  repo.GoalLineCarryCounts,
			"snaps":      repo.SnapCounts,
			"touchdowns": repo.TouchdownCounts,
		} {
			rows, err := fn(ctx, UnknownID)
			if err != nil {
				t.Fatalf("%s failed: %v", name, err)
			}
			if len(rows) != 0 {
				t.Fatalf("%s: expected no rows, got %+v", name, rows)
			}
		}
	})

	t.Run("top_target_counts", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()

		rows, err := repo.TopTargetCounts(ctx, model.LeaderQuery{Year: 2019, Limit: 10})
		if err != nil {
			t.Fatalf("top targets failed: %v", err)
		}
		if len(rows) != 2 || rows[0].PlayerID != EdelmanID || rows[1].PlayerID != MichelID {
			t.Fatalf("unexpected leaderboard: %+v", rows)
		}

		rows, err = repo.TopTargetCounts(ctx, model.LeaderQuery{Year: 2019, Limit: 10, Minimum: 2})
		if err != nil {
			t.Fatalf("top targets failed: %v", err)
		}
		if len(rows) != 1 || rows[0].PlayerID != EdelmanID {
			t.Fatalf("minimum not applied: %+v", rows)
		}

		rows, err = repo.TopTargetCounts(ctx, model.LeaderQuery{Year: 2019, Limit: 1})
		if err != nil {
			t.Fatalf("top targets failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("limit not applied: %+v", rows)
		}

		rows, err = repo.TopTargetCounts(ctx, model.LeaderQuery{Year: 1999, Limit: 10})
		if err != nil {
			t.Fatalf("top targets failed: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("expected empty season, got %+v", rows)
		}
	})

	t.Run("top_touchdown_counts", func(t *testing.T) {
		repo := setup(t)
		rows, err := repo.TopTouchdownCounts(context.Background(), model.LeaderQuery{Year: 2019, Limit: 10})
		if err != nil {
			t.Fatalf("top touchdowns failed: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 scorers, got %+v", rows)
		}
		// Equal shares fall back to name order.
		names := []string{rows[0].Name, rows[1].Name, rows[2].Name}
		if names[0] != "Julian Edelman" || names[1] != "Sony Michel" || names[2] != "Tom Brady" {
			t.Fatalf("unexpected order: %v", names)
		}
		for _, r := range rows {
			if r.Year != 2019 || r.Part != 1 || r.Whole != 3 {
				t.Fatalf("unexpected counts: %+v", r)
			}
		}
	})

	t.Run("repeatable", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()
		first, err := repo.GoalLineCarryCounts(ctx, BradyID)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		second, err := repo.GoalLineCarryCounts(ctx, BradyID)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("results differ: %+v vs %+v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("results differ at %d: %+v vs %+v", i, first[i], second[i])
			}
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	p, cleanup := makePinger(t)
	t.Cleanup(cleanup)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

type share struct {
	year        int
	team        string
	part, whole float64
}

func expectShares(t *testing.T, rows []model.ShareCounts, want ...share) {
	t.Helper()
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i, w := range want {
		r := rows[i]
		if r.Year != w.year || r.Team != w.team {
			t.Fatalf("row %d: expected %d/%s, got %d/%s", i, w.year, w.team, r.Year, r.Team)
		}
		if math.Abs(r.Part-w.part) > 1e-9 || math.Abs(r.Whole-w.whole) > 1e-9 {
			t.Fatalf("row %d: expected %v/%v, got %v/%v", i, w.part, w.whole, r.Part, r.Whole)
		}
	}
}
