package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/league"
	"github.com/riskibarqy/club-league/internal/domain/schedule"
	"github.com/riskibarqy/club-league/internal/domain/team"
	idgen "github.com/riskibarqy/club-league/internal/platform/id"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// ScheduleService turns a season's division rosters into a full fixture
// calendar.
type ScheduleService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	rules       league.Rules
	idGen       idgen.Generator
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewScheduleService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	rules league.Rules,
	idGen idgen.Generator,
	clock clockwork.Clock,
	logger *logging.Logger,
) *ScheduleService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ScheduleService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		rules:       rules,
		idGen:       idGen,
		clock:       clock,
		logger:      logger,
	}
}

// GenerateFixtures builds a double round-robin calendar per division.
// Divisions that already have fixtures keep them untouched, so repeated
// calls and concurrent generators converge on one calendar.
func (s *ScheduleService) GenerateFixtures(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GenerateFixtures")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	anchor := s.clock.Now().UTC()
	for division := 1; division <= s.rules.DivisionCount; division++ {
		if err := s.generateDivision(ctx, seasonID, division, anchor); err != nil {
			return err
		}
	}

	return nil
}

func (s *ScheduleService) generateDivision(ctx context.Context, seasonID string, division int, anchor time.Time) error {
	existing, err := s.fixtureRepo.CountByDivision(ctx, seasonID, division)
	if err != nil {
		return fmt.Errorf("count division %d fixtures: %w", division, err)
	}
	if existing > 0 {
		return nil
	}

	clubs, err := s.teamRepo.ListByDivision(ctx, seasonID, division)
	if err != nil {
		return fmt.Errorf("list division %d teams: %w", division, err)
	}
	if len(clubs) < 2 {
		s.logger.WarnContext(ctx, "division too small to schedule",
			"season_id", seasonID,
			"division", division,
			"team_count", len(clubs),
		)
		return nil
	}

	teamIDs := make([]string, 0, len(clubs))
	for _, club := range clubs {
		teamIDs = append(teamIDs, club.ID)
	}

	rounds := schedule.DoubleRoundRobin(teamIDs)
	fixtures := make([]fixture.Fixture, 0, len(rounds)*len(teamIDs)/2)
	for roundIdx, round := range rounds {
		gameweek := roundIdx + 1
		matchDate := anchor.Add(time.Duration(roundIdx) * s.rules.GameweekInterval)
		for _, pair := range round {
			if pair.IsBye() {
				continue
			}

			fixtureID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate fixture id: %w", err)
			}

			item := fixture.Fixture{
				ID:         fixtureID,
				SeasonID:   seasonID,
				Division:   division,
				Gameweek:   gameweek,
				HomeTeamID: pair.Home,
				AwayTeamID: pair.Away,
				Status:     fixture.StatusScheduled,
				MatchDate:  matchDate,
			}
			if err := item.Validate(); err != nil {
				return fmt.Errorf("validate generated fixture: %w", err)
			}
			fixtures = append(fixtures, item)
		}
	}

	if err := s.fixtureRepo.InsertBatch(ctx, fixtures); err != nil {
		if isConflict(err) {
			// Another generator won the race for this division.
			s.logger.InfoContext(ctx, "division fixtures already generated",
				"season_id", seasonID,
				"division", division,
			)
			return nil
		}
		return fmt.Errorf("insert division %d fixtures: %w", division, err)
	}

	s.logger.InfoContext(ctx, "division fixtures generated",
		"season_id", seasonID,
		"division", division,
		"fixture_count", len(fixtures),
		"gameweeks", len(rounds),
	)

	return nil
}

// FixturesForGameweek lists a gameweek's fixtures across all divisions.
func (s *ScheduleService) FixturesForGameweek(ctx context.Context, seasonID string, gameweek int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.FixturesForGameweek")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if gameweek < 1 {
		return nil, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, seasonID, gameweek)
	if err != nil {
		return nil, fmt.Errorf("list gameweek fixtures: %w", err)
	}

	// Refs are minted on first exposure so clients always see an
	// addressable handle.
	for i := range fixtures {
		if strings.TrimSpace(fixtures[i].Ref) != "" {
			continue
		}
		ref, err := s.fixtureRepo.EnsureRef(ctx, fixtures[i].ID, uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("ensure fixture ref: %w", err)
		}
		fixtures[i].Ref = ref
	}

	return fixtures, nil
}
