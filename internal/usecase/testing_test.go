package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/club-league/internal/domain/league"
	"github.com/riskibarqy/club-league/internal/domain/simulation"
	"github.com/riskibarqy/club-league/internal/infrastructure/economy"
	"github.com/riskibarqy/club-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-league/internal/infrastructure/roster"
	"github.com/riskibarqy/club-league/internal/platform/id"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// leagueEnv wires every service against in-memory infrastructure the same
// way the application container does.
type leagueEnv struct {
	rules    league.Rules
	clock    *clockwork.FakeClock
	seasons  *memory.SeasonRepository
	teams    *memory.TeamRepository
	fixtures *memory.FixtureRepository
	ledger   *economy.MemoryLedger
	rosters  *roster.StaticSource

	seasonSvc      *SeasonService
	teamSvc        *TeamService
	scheduleSvc    *ScheduleService
	matchSvc       *MatchService
	gameweekSvc    *GameweekService
	progressionSvc *ProgressionService
}

func newLeagueEnv(t *testing.T) *leagueEnv {
	t.Helper()

	rules := league.Rules{
		DivisionCount:    2,
		DivisionSize:     4,
		PromotionCount:   1,
		AIRatingMin:      55,
		AIRatingMax:      75,
		GameweekInterval: 24 * time.Hour,
		WinReward:        250,
		DrawReward:       100,
	}
	if err := rules.Validate(); err != nil {
		t.Fatalf("test rules are invalid: %v", err)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	seasons := memory.NewSeasonRepository()
	teams := memory.NewTeamRepository()
	fixtures := memory.NewFixtureRepository(teams)
	ledger := economy.NewMemoryLedger()
	rosters := roster.NewStaticSource(65)
	idGen := id.NewRandomGenerator()
	logger := logging.NewNop()
	engine := simulation.NewEngine(simulation.DefaultParams(), 42)

	env := &leagueEnv{
		rules:    rules,
		clock:    clock,
		seasons:  seasons,
		teams:    teams,
		fixtures: fixtures,
		ledger:   ledger,
		rosters:  rosters,
	}
	env.seasonSvc = NewSeasonService(seasons, fixtures, clock, logger)
	env.teamSvc = NewTeamService(teams, fixtures, rules, idGen, logger)
	env.scheduleSvc = NewScheduleService(teams, fixtures, rules, idGen, clock, logger)
	env.matchSvc = NewMatchService(fixtures, teams, engine, ledger, rosters, rules, logger)
	env.gameweekSvc = NewGameweekService(fixtures, env.matchSvc, 4, logger)
	env.progressionSvc = NewProgressionService(seasons, teams, fixtures, env.scheduleSvc, rules, idGen, clock, logger)

	return env
}

// bootstrapSeason creates the first season, seeds its teams, and generates
// the full calendar.
func (env *leagueEnv) bootstrapSeason(t *testing.T, ctx context.Context, participantRefs []string) string {
	t.Helper()

	current, err := env.seasonSvc.Current(ctx)
	if err != nil {
		t.Fatalf("current season failed: %v", err)
	}
	if err := env.teamSvc.CreateSeasonTeams(ctx, current.ID, participantRefs); err != nil {
		t.Fatalf("create season teams failed: %v", err)
	}
	if err := env.scheduleSvc.GenerateFixtures(ctx, current.ID); err != nil {
		t.Fatalf("generate fixtures failed: %v", err)
	}

	return current.ID
}

// playOutSeason simulates every remaining gameweek.
func (env *leagueEnv) playOutSeason(t *testing.T, ctx context.Context, seasonID string) {
	t.Helper()

	maxGameweek, err := env.fixtures.MaxGameweek(ctx, seasonID)
	if err != nil {
		t.Fatalf("max gameweek failed: %v", err)
	}
	for gameweek := 1; gameweek <= maxGameweek; gameweek++ {
		result, err := env.gameweekSvc.SimulateGameweek(ctx, seasonID, gameweek)
		if err != nil {
			t.Fatalf("simulate gameweek %d failed: %v", gameweek, err)
		}
		if result.FailedCount != 0 {
			t.Fatalf("gameweek %d had %d failures: %+v", gameweek, result.FailedCount, result.Fixtures)
		}
	}
}
