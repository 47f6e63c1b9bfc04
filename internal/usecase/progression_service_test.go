package usecase

import (
	"testing"

	"github.com/riskibarqy/club-league/internal/domain/standings"
)

func TestProgressionService_AdvanceIfComplete_NoOpWhileSeasonRuns(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	env.bootstrapSeason(t, ctx, []string{"user-1"})

	nextID, advanced, err := env.progressionSvc.AdvanceIfComplete(ctx)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if advanced || nextID != "" {
		t.Fatalf("advanced an unfinished season: next=%s advanced=%v", nextID, advanced)
	}
}

func TestProgressionService_AdvanceIfComplete_RollsOver(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1", "user-2"})
	env.playOutSeason(t, ctx, seasonID)

	// Capture final tables before rollover to verify the swap.
	divisionOne, err := env.teams.ListByDivision(ctx, seasonID, 1)
	if err != nil {
		t.Fatalf("list division 1 failed: %v", err)
	}
	divisionTwo, err := env.teams.ListByDivision(ctx, seasonID, 2)
	if err != nil {
		t.Fatalf("list division 2 failed: %v", err)
	}
	tableOne := standings.FromTeams(divisionOne)
	tableTwo := standings.FromTeams(divisionTwo)
	relegatedName := tableOne[len(tableOne)-1].Name
	promotedName := tableTwo[0].Name

	nextID, advanced, err := env.progressionSvc.AdvanceIfComplete(ctx)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !advanced {
		t.Fatal("completed season did not advance")
	}
	if nextID != "S2" {
		t.Fatalf("unexpected next season id: %s", nextID)
	}

	current, err := env.seasonSvc.Current(ctx)
	if err != nil {
		t.Fatalf("current season failed: %v", err)
	}
	if current.ID != nextID {
		t.Fatalf("current season is %s, expected %s", current.ID, nextID)
	}

	nextTeams, err := env.teams.ListBySeason(ctx, nextID)
	if err != nil {
		t.Fatalf("list next season teams failed: %v", err)
	}
	if len(nextTeams) != env.rules.DivisionCount*env.rules.DivisionSize {
		t.Fatalf("next season has %d teams", len(nextTeams))
	}

	foundRelegated, foundPromoted := false, false
	for _, club := range nextTeams {
		if club.Played() != 0 || club.Points != 0 || club.GoalsFor != 0 {
			t.Fatalf("club %s carried counters into the new season", club.Name)
		}
		switch club.Name {
		case relegatedName:
			foundRelegated = true
			if club.Division != 2 {
				t.Fatalf("bottom club %s ended up in division %d", club.Name, club.Division)
			}
		case promotedName:
			foundPromoted = true
			if club.Division != 1 {
				t.Fatalf("division 2 winner %s ended up in division %d", club.Name, club.Division)
			}
		}
	}
	if !foundRelegated || !foundPromoted {
		t.Fatalf("swap clubs missing from next season: relegated=%v promoted=%v", foundRelegated, foundPromoted)
	}

	// The new calendar exists and the old one is untouched.
	nextFixtures, err := env.fixtures.ListBySeason(ctx, nextID)
	if err != nil {
		t.Fatalf("list next season fixtures failed: %v", err)
	}
	size := env.rules.DivisionSize
	if len(nextFixtures) != env.rules.DivisionCount*size*(size-1) {
		t.Fatalf("next season has %d fixtures", len(nextFixtures))
	}

	// Participants keep their clubs across the rollover.
	club, err := env.teamSvc.TeamForParticipant(ctx, nextID, "user-1")
	if err != nil {
		t.Fatalf("participant lost their club in rollover: %v", err)
	}
	if club.SeasonID != nextID {
		t.Fatalf("club belongs to season %s", club.SeasonID)
	}
}

func TestProgressionService_AdvanceIfComplete_Idempotent(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})
	env.playOutSeason(t, ctx, seasonID)

	nextID, advanced, err := env.progressionSvc.AdvanceIfComplete(ctx)
	if err != nil || !advanced {
		t.Fatalf("first advance failed: advanced=%v err=%v", advanced, err)
	}

	againID, advancedAgain, err := env.progressionSvc.AdvanceIfComplete(ctx)
	if err != nil {
		t.Fatalf("second advance failed: %v", err)
	}
	if advancedAgain {
		t.Fatal("rollover ran twice")
	}
	// The new season is unplayed, so the repeat call reports it as the
	// in-progress season via a no-op.
	if againID != "" && againID != nextID {
		t.Fatalf("second advance pointed at season %s", againID)
	}

	count, err := env.teams.CountBySeason(ctx, nextID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != env.rules.DivisionCount*env.rules.DivisionSize {
		t.Fatalf("repeat advance changed team count: %d", count)
	}
}
