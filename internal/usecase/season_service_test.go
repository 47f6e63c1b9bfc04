package usecase

import (
	"testing"

	"github.com/riskibarqy/club-league/internal/domain/season"
)

func TestSeasonService_Current_MaterializesFirstSeason(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()

	current, err := env.seasonSvc.Current(ctx)
	if err != nil {
		t.Fatalf("current season failed: %v", err)
	}
	if current.ID != season.FirstID {
		t.Fatalf("unexpected first season id: %s", current.ID)
	}

	again, err := env.seasonSvc.Current(ctx)
	if err != nil {
		t.Fatalf("second current season failed: %v", err)
	}
	if again.ID != current.ID {
		t.Fatalf("current season changed between calls: %s vs %s", again.ID, current.ID)
	}
}

func TestSeasonService_CurrentGameweek_TracksPlay(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()

	current, err := env.seasonSvc.Current(ctx)
	if err != nil {
		t.Fatalf("current season failed: %v", err)
	}

	// Before any fixtures exist the season sits at gameweek 1.
	gameweek, err := env.seasonSvc.CurrentGameweek(ctx, current.ID)
	if err != nil {
		t.Fatalf("current gameweek failed: %v", err)
	}
	if gameweek != 1 {
		t.Fatalf("expected gameweek 1 before fixtures, got %d", gameweek)
	}

	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})

	gameweek, err = env.seasonSvc.CurrentGameweek(ctx, seasonID)
	if err != nil {
		t.Fatalf("current gameweek failed: %v", err)
	}
	if gameweek != 1 {
		t.Fatalf("expected gameweek 1 after generation, got %d", gameweek)
	}

	if _, err := env.gameweekSvc.SimulateGameweek(ctx, seasonID, 1); err != nil {
		t.Fatalf("simulate gameweek 1 failed: %v", err)
	}

	gameweek, err = env.seasonSvc.CurrentGameweek(ctx, seasonID)
	if err != nil {
		t.Fatalf("current gameweek failed: %v", err)
	}
	if gameweek != 2 {
		t.Fatalf("expected gameweek 2 after playing gameweek 1, got %d", gameweek)
	}
}

func TestSeasonService_IsComplete(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, nil)

	complete, err := env.seasonSvc.IsComplete(ctx, seasonID)
	if err != nil {
		t.Fatalf("is complete failed: %v", err)
	}
	if complete {
		t.Fatal("fresh season reported complete")
	}

	env.playOutSeason(t, ctx, seasonID)

	complete, err = env.seasonSvc.IsComplete(ctx, seasonID)
	if err != nil {
		t.Fatalf("is complete failed: %v", err)
	}
	if !complete {
		t.Fatal("fully played season reported incomplete")
	}

	// A season without fixtures is never complete.
	complete, err = env.seasonSvc.IsComplete(ctx, "S99")
	if err != nil {
		t.Fatalf("is complete failed: %v", err)
	}
	if complete {
		t.Fatal("fixtureless season reported complete")
	}
}
