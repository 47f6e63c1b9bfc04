package usecase

import (
	"errors"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/team"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidState          = errors.New("invalid state")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// isConflict reports whether a repository error is a unique-index
// conflict, which the services treat as a lost race rather than a
// failure.
func isConflict(err error) bool {
	return errors.Is(err, team.ErrConflict) || errors.Is(err, fixture.ErrConflict)
}
