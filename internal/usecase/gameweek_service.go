package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

const (
	gameweekStatusSimulated = "simulated"
	gameweekStatusSkipped   = "skipped"
	gameweekStatusFailed    = "failed"
)

// GameweekFixtureResult is one fixture's row in a batch report.
type GameweekFixtureResult struct {
	FixtureID  string
	FixtureRef string
	Division   int
	Status     string
	HomeScore  int
	AwayScore  int
	Message    string
	DurationMs int64
}

// GameweekResult summarizes one batch simulation run.
type GameweekResult struct {
	SeasonID       string
	Gameweek       int
	WorkerCount    int
	SimulatedCount int
	SkippedCount   int
	FailedCount    int
	Fixtures       []GameweekFixtureResult
}

// GameweekService simulates a whole gameweek across all divisions with a
// bounded worker pool. Per-fixture atomicity makes the batch safe to run
// concurrently with participant-triggered simulations: fixtures someone
// else completed first are reported as skipped.
type GameweekService struct {
	fixtureRepo fixture.Repository
	matches     *MatchService
	workerCount int
	logger      *logging.Logger
}

func NewGameweekService(
	fixtureRepo fixture.Repository,
	matches *MatchService,
	workerCount int,
	logger *logging.Logger,
) *GameweekService {
	if workerCount < 1 {
		workerCount = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &GameweekService{
		fixtureRepo: fixtureRepo,
		matches:     matches,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SimulateGameweek plays every still-scheduled fixture of the gameweek.
func (s *GameweekService) SimulateGameweek(ctx context.Context, seasonID string, gameweek int) (GameweekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.SimulateGameweek")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return GameweekResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if gameweek < 1 {
		return GameweekResult{}, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, seasonID, gameweek)
	if err != nil {
		return GameweekResult{}, fmt.Errorf("list gameweek fixtures: %w", err)
	}

	result := GameweekResult{
		SeasonID:    seasonID,
		Gameweek:    gameweek,
		WorkerCount: s.workerCount,
		Fixtures:    make([]GameweekFixtureResult, 0, len(fixtures)),
	}
	if len(fixtures) == 0 {
		return result, nil
	}

	results := make(chan GameweekFixtureResult, len(fixtures))

	var simulatedCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return GameweekResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range fixtures {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.simulateOne(ctx, item)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case gameweekStatusSimulated:
				simulatedCount.Add(1)
			case gameweekStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return GameweekResult{}, fmt.Errorf("submit fixture to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Fixtures = append(result.Fixtures, row)
	}

	sort.SliceStable(result.Fixtures, func(i, j int) bool {
		if result.Fixtures[i].Division != result.Fixtures[j].Division {
			return result.Fixtures[i].Division < result.Fixtures[j].Division
		}
		return result.Fixtures[i].FixtureID < result.Fixtures[j].FixtureID
	})

	result.SimulatedCount = int(simulatedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "gameweek simulated",
		"season_id", seasonID,
		"gameweek", gameweek,
		"simulated", result.SimulatedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

func (s *GameweekService) simulateOne(ctx context.Context, item fixture.Fixture) GameweekFixtureResult {
	row := GameweekFixtureResult{
		FixtureID:  item.ID,
		FixtureRef: item.Ref,
		Division:   item.Division,
	}

	if item.IsCompleted() {
		row.Status = gameweekStatusSkipped
		row.Message = "fixture already completed"
		return row
	}

	outcome, err := s.matches.SimulateSystem(ctx, item.ID)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			row.Status = gameweekStatusSkipped
			row.Message = "fixture completed by a concurrent simulation"
			return row
		}
		row.Status = gameweekStatusFailed
		row.Message = err.Error()
		return row
	}

	row.Status = gameweekStatusSimulated
	row.FixtureRef = outcome.Fixture.Ref
	if outcome.Fixture.HomeScore != nil {
		row.HomeScore = *outcome.Fixture.HomeScore
	}
	if outcome.Fixture.AwayScore != nil {
		row.AwayScore = *outcome.Fixture.AwayScore
	}

	return row
}
