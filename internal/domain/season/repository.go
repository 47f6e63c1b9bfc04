package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	// GetCurrent returns the most recently created season.
	GetCurrent(ctx context.Context) (Season, bool, error)
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	// Create inserts a new season. It returns false without error when a
	// season with the same id already exists, so concurrent creators
	// converge on a single row.
	Create(ctx context.Context, item Season) (bool, error)
}
