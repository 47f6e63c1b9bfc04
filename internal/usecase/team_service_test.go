package usecase

import (
	"errors"
	"testing"
)

func TestTeamService_CreateSeasonTeams_SeedsFullLeague(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()

	if err := env.teamSvc.CreateSeasonTeams(ctx, "S1", []string{"user-1", "user-2"}); err != nil {
		t.Fatalf("create season teams failed: %v", err)
	}

	all, err := env.teams.ListBySeason(ctx, "S1")
	if err != nil {
		t.Fatalf("list season teams failed: %v", err)
	}
	if len(all) != env.rules.DivisionCount*env.rules.DivisionSize {
		t.Fatalf("expected %d teams, got %d", env.rules.DivisionCount*env.rules.DivisionSize, len(all))
	}

	humans := 0
	names := make(map[string]bool, len(all))
	for _, club := range all {
		if names[club.Name] {
			t.Fatalf("duplicate club name %q", club.Name)
		}
		names[club.Name] = true

		if club.Played() != 0 || club.Points != 0 {
			t.Fatalf("fresh club %s has non-zero counters", club.ID)
		}
		if !club.IsAI() {
			humans++
			if club.Division != 1 {
				t.Fatalf("human club %s seeded into division %d", club.ID, club.Division)
			}
			continue
		}
		if club.Rating < env.rules.AIRatingMin || club.Rating > env.rules.AIRatingMax {
			t.Fatalf("ai club %s rating %f outside bounds", club.ID, club.Rating)
		}
	}
	if humans != 2 {
		t.Fatalf("expected 2 human clubs, got %d", humans)
	}
}

func TestTeamService_CreateSeasonTeams_Idempotent(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()

	if err := env.teamSvc.CreateSeasonTeams(ctx, "S1", []string{"user-1"}); err != nil {
		t.Fatalf("first seeding failed: %v", err)
	}
	if err := env.teamSvc.CreateSeasonTeams(ctx, "S1", []string{"user-1", "user-2"}); err != nil {
		t.Fatalf("second seeding failed: %v", err)
	}

	count, err := env.teams.CountBySeason(ctx, "S1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != env.rules.DivisionCount*env.rules.DivisionSize {
		t.Fatalf("repeated seeding changed team count: %d", count)
	}
}

func TestTeamService_EnsureParticipantTeam_ClaimsAIClub(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})

	claimed, err := env.teamSvc.EnsureParticipantTeam(ctx, seasonID, "late-joiner")
	if err != nil {
		t.Fatalf("ensure participant team failed: %v", err)
	}
	if claimed.ParticipantRef != "late-joiner" {
		t.Fatalf("claimed club kept participant ref %q", claimed.ParticipantRef)
	}
	if claimed.Division != 1 {
		t.Fatalf("late joiner should claim in the lowest division number first, got %d", claimed.Division)
	}

	// Repeat calls return the same club instead of claiming another.
	again, err := env.teamSvc.EnsureParticipantTeam(ctx, seasonID, "late-joiner")
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if again.ID != claimed.ID {
		t.Fatalf("repeated ensure returned a different club: %s vs %s", again.ID, claimed.ID)
	}

	count, err := env.teams.CountBySeason(ctx, seasonID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != env.rules.DivisionCount*env.rules.DivisionSize {
		t.Fatalf("claiming changed the team count: %d", count)
	}
}

func TestTeamService_EnsureParticipantTeam_FullLeague(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()

	capacity := env.rules.DivisionCount * env.rules.DivisionSize
	refs := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		refs = append(refs, string(rune('a'+i))+"-user")
	}
	seasonID := env.bootstrapSeason(t, ctx, refs)

	_, err := env.teamSvc.EnsureParticipantTeam(ctx, seasonID, "one-too-many")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for a full league, got %v", err)
	}
}

func TestTeamService_TeamForParticipant_NotFound(t *testing.T) {
	env := newLeagueEnv(t)
	ctx := t.Context()
	seasonID := env.bootstrapSeason(t, ctx, []string{"user-1"})

	_, err := env.teamSvc.TeamForParticipant(ctx, seasonID, "stranger")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
