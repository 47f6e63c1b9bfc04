package team

import (
	"context"
	"errors"
)

// ErrConflict signals that the season's team set already exists. Callers
// treat it as a lost creation race, not a failure.
var ErrConflict = errors.New("season teams already exist")

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)
	ListByDivision(ctx context.Context, seasonID string, division int) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByParticipant(ctx context.Context, seasonID, participantRef string) (Team, bool, error)
	CountBySeason(ctx context.Context, seasonID string) (int, error)
	// InsertBatch writes all rows atomically. A uniqueness clash on any row
	// aborts the whole batch with ErrConflict.
	InsertBatch(ctx context.Context, items []Team) error
	// Claim assigns participantRef to the team only when the team is still
	// AI-controlled. Returns false when someone else claimed it first.
	Claim(ctx context.Context, teamID, participantRef string) (bool, error)
}
