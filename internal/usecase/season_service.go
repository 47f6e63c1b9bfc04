package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/season"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// SeasonService is the season registry: it answers which season and
// gameweek the game is in, materializing defaults lazily instead of
// treating absent data as an error.
type SeasonService struct {
	seasonRepo  season.Repository
	fixtureRepo fixture.Repository
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewSeasonService(
	seasonRepo season.Repository,
	fixtureRepo fixture.Repository,
	clock clockwork.Clock,
	logger *logging.Logger,
) *SeasonService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonService{
		seasonRepo:  seasonRepo,
		fixtureRepo: fixtureRepo,
		clock:       clock,
		logger:      logger,
	}
}

// Current returns the season marked current, creating the first one when
// none exists yet. Concurrent first calls converge on the same row.
func (s *SeasonService) Current(ctx context.Context) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Current")
	defer span.End()

	current, exists, err := s.seasonRepo.GetCurrent(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("get current season: %w", err)
	}
	if exists {
		return current, nil
	}

	fresh := season.Season{ID: season.FirstID, CreatedAt: s.clock.Now().UTC()}
	created, err := s.seasonRepo.Create(ctx, fresh)
	if err != nil {
		return season.Season{}, fmt.Errorf("create first season: %w", err)
	}
	if created {
		s.logger.InfoContext(ctx, "season materialized", "season_id", fresh.ID)
		return fresh, nil
	}

	// Lost the creation race; the winner's row is authoritative.
	current, exists, err = s.seasonRepo.GetCurrent(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("re-read current season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("season creation lost race but no season found")
	}

	return current, nil
}

// CurrentGameweek is the gameweek play is at: the lowest gameweek that
// still has a scheduled fixture, the final gameweek once everything is
// played, and 1 before any fixtures exist.
func (s *SeasonService) CurrentGameweek(ctx context.Context, seasonID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.CurrentGameweek")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return 0, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	gameweek, ok, err := s.fixtureRepo.MinScheduledGameweek(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("min scheduled gameweek: %w", err)
	}
	if ok {
		return gameweek, nil
	}

	maxGameweek, err := s.fixtureRepo.MaxGameweek(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("max gameweek: %w", err)
	}
	if maxGameweek == 0 {
		return 1, nil
	}

	return maxGameweek, nil
}

// IsComplete reports whether every fixture of the season has been played.
// A season with no fixtures at all is not complete.
func (s *SeasonService) IsComplete(ctx context.Context, seasonID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.IsComplete")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return false, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	scheduled, err := s.fixtureRepo.CountByStatus(ctx, seasonID, fixture.StatusScheduled)
	if err != nil {
		return false, fmt.Errorf("count scheduled fixtures: %w", err)
	}
	if scheduled > 0 {
		return false, nil
	}

	completed, err := s.fixtureRepo.CountByStatus(ctx, seasonID, fixture.StatusCompleted)
	if err != nil {
		return false, fmt.Errorf("count completed fixtures: %w", err)
	}

	return completed > 0, nil
}
