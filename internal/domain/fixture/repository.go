package fixture

import (
	"context"
	"errors"

	"github.com/riskibarqy/club-league/internal/domain/team"
)

// ErrConflict signals that the division's fixture set already exists.
// Callers treat it as a lost generation race, not a failure.
var ErrConflict = errors.New("fixtures already exist")

// Completion carries everything one simulated result writes: the final
// score plus the aggregate deltas for both clubs. The repository applies it
// atomically, gated on the fixture still being SCHEDULED.
type Completion struct {
	FixtureID string
	HomeScore int
	AwayScore int
	Home      team.ResultDelta
	Away      team.ResultDelta
}

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Fixture, error)
	ListByGameweek(ctx context.Context, seasonID string, gameweek int) ([]Fixture, error)
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	GetByRef(ctx context.Context, ref string) (Fixture, bool, error)
	// InsertBatch writes a division's fixture set atomically; any
	// uniqueness clash aborts the whole batch with ErrConflict.
	InsertBatch(ctx context.Context, items []Fixture) error
	CountByDivision(ctx context.Context, seasonID string, division int) (int, error)
	CountByStatus(ctx context.Context, seasonID, status string) (int, error)
	MaxGameweek(ctx context.Context, seasonID string) (int, error)
	// MinScheduledGameweek returns the lowest gameweek that still has a
	// SCHEDULED fixture; ok is false when the season has none left.
	MinScheduledGameweek(ctx context.Context, seasonID string) (int, bool, error)
	// EnsureRef sets the fixture's external ref to candidate only when no
	// ref exists yet and returns whichever value won. Idempotent.
	EnsureRef(ctx context.Context, fixtureID, candidate string) (string, error)
	// Complete performs the single atomic state transition
	// SCHEDULED -> COMPLETED together with both team aggregate updates.
	// It returns false when the fixture was already completed, so at most
	// one concurrent simulation wins.
	Complete(ctx context.Context, completion Completion) (bool, error)
}
