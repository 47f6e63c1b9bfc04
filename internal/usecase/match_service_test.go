package usecase

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/sourcegraph/conc"
)

func (env *leagueEnv) firstFixtureOf(t *testing.T, seasonID, participantRef string) fixture.Fixture {
	t.Helper()

	club, err := env.teamSvc.TeamForParticipant(t.Context(), seasonID, participantRef)
	if err != nil {
		t.Fatalf("team for participant failed: %v", err)
	}

	maxGameweek, err := env.fixtures.MaxGameweek(t.Context(), seasonID)
	if err != nil {
		t.Fatalf("max gameweek failed: %v", err)
	}
	for gameweek := 1; gameweek <= maxGameweek; gameweek++ {
		items, err := env.scheduleSvc.FixturesForGameweek(t.Context(), seasonID, gameweek)
		if err != nil {
			t.Fatalf("fixtures for gameweek failed: %v", err)
		}
		for _, item := range items {
			if item.HomeTeamID == club.ID || item.AwayTeamID == club.ID {
				return item
			}
		}
	}

	t.Fatalf("no fixture found for participant %s", participantRef)
	return fixture.Fixture{}
}

func TestMatchService_Simulate_CompletesFixture(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})
	item := env.firstFixtureOf(t, seasonID, "user-1")

	outcome, err := env.matchSvc.Simulate(ctx, item.Ref, "user-1")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if !outcome.Fixture.IsCompleted() {
		t.Fatalf("fixture not completed: %s", outcome.Fixture.Status)
	}
	if outcome.Fixture.HomeScore == nil || outcome.Fixture.AwayScore == nil {
		t.Fatal("completed fixture missing scores")
	}
	if outcome.Home.Played() != 1 || outcome.Away.Played() != 1 {
		t.Fatalf("team counters not updated: home=%d away=%d", outcome.Home.Played(), outcome.Away.Played())
	}
	if len(outcome.Standings) != env.rules.DivisionSize {
		t.Fatalf("expected %d standings rows, got %d", env.rules.DivisionSize, len(outcome.Standings))
	}

	homePoints := outcome.Home.Points
	awayPoints := outcome.Away.Points
	if homePoints+awayPoints != 3 && homePoints+awayPoints != 2 {
		t.Fatalf("result distributed %d points", homePoints+awayPoints)
	}
}

func TestMatchService_Simulate_SecondAttemptFails(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})
	item := env.firstFixtureOf(t, seasonID, "user-1")

	if _, err := env.matchSvc.Simulate(ctx, item.Ref, "user-1"); err != nil {
		t.Fatalf("first simulate failed: %v", err)
	}

	_, err := env.matchSvc.Simulate(ctx, item.Ref, "user-1")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on repeat simulate, got %v", err)
	}
}

func TestMatchService_Simulate_RequiresParticipation(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1", "user-2"})
	item := env.firstFixtureOf(t, seasonID, "user-1")

	_, err := env.matchSvc.Simulate(ctx, item.Ref, "bystander")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	_, err = env.matchSvc.Simulate(ctx, "no-such-fixture", "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_Simulate_PaysRewards(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})
	env.playOutSeason(t, ctx, seasonID)

	club, err := env.teamSvc.TeamForParticipant(ctx, seasonID, "user-1")
	if err != nil {
		t.Fatalf("team for participant failed: %v", err)
	}

	expected := int64(club.Won)*env.rules.WinReward + int64(club.Drawn)*env.rules.DrawReward
	if balance := env.ledger.Balance("user-1"); balance != expected {
		t.Fatalf("ledger balance %d, expected %d (W%d D%d L%d)", balance, expected, club.Won, club.Drawn, club.Lost)
	}

	for _, posting := range env.ledger.Postings() {
		if !strings.HasPrefix(posting.ReasonTag, "match:") {
			t.Fatalf("posting has unexpected reason tag %q", posting.ReasonTag)
		}
	}
}

func TestMatchService_Simulate_ConcurrentAttemptsProduceOneResult(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})
	item := env.firstFixtureOf(t, seasonID, "user-1")

	const attempts = 8
	var successes atomic.Int32
	var alreadyCompleted atomic.Int32

	var wg conc.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Go(func() {
			_, err := env.matchSvc.Simulate(ctx, item.Ref, "user-1")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrInvalidState):
				alreadyCompleted.Add(1)
			default:
				t.Errorf("unexpected simulate error: %v", err)
			}
		})
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Fatalf("expected exactly 1 winning simulation, got %d", successes.Load())
	}
	if alreadyCompleted.Load() != attempts-1 {
		t.Fatalf("expected %d losers, got %d", attempts-1, alreadyCompleted.Load())
	}

	stored, exists, err := env.fixtures.GetByID(ctx, item.ID)
	if err != nil || !exists {
		t.Fatalf("fixture lookup failed: exists=%v err=%v", exists, err)
	}
	home, _, _ := env.teams.GetByID(ctx, stored.HomeTeamID)
	away, _, _ := env.teams.GetByID(ctx, stored.AwayTeamID)
	if home.Played() != 1 || away.Played() != 1 {
		t.Fatalf("counters applied more than once: home=%d away=%d", home.Played(), away.Played())
	}
}
