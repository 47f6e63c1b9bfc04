package usecase

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/league"
	"github.com/riskibarqy/club-league/internal/domain/season"
	"github.com/riskibarqy/club-league/internal/domain/standings"
	"github.com/riskibarqy/club-league/internal/domain/team"
	idgen "github.com/riskibarqy/club-league/internal/platform/id"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// ProgressionService rolls a finished season over: it applies promotion and
// relegation between adjacent divisions, seeds the next season's team rows
// with zeroed counters, and generates the new calendar.
type ProgressionService struct {
	seasonRepo  season.Repository
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	schedule    *ScheduleService
	rules       league.Rules
	idGen       idgen.Generator
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewProgressionService(
	seasonRepo season.Repository,
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	schedule *ScheduleService,
	rules league.Rules,
	idGen idgen.Generator,
	clock clockwork.Clock,
	logger *logging.Logger,
) *ProgressionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ProgressionService{
		seasonRepo:  seasonRepo,
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		schedule:    schedule,
		rules:       rules,
		idGen:       idGen,
		clock:       clock,
		logger:      logger,
	}
}

// AdvanceIfComplete rolls over to the next season when every fixture of the
// current one is played. It returns the next season's id and whether this
// call performed the rollover; an unfinished season is a quiet no-op, and
// concurrent or repeated calls converge on one rollover.
func (s *ProgressionService) AdvanceIfComplete(ctx context.Context) (string, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.AdvanceIfComplete")
	defer span.End()

	current, exists, err := s.seasonRepo.GetCurrent(ctx)
	if err != nil {
		return "", false, fmt.Errorf("get current season: %w", err)
	}
	if !exists {
		return "", false, nil
	}

	complete, err := s.seasonComplete(ctx, current.ID)
	if err != nil {
		return "", false, err
	}
	if !complete {
		return "", false, nil
	}

	nextID := season.NextID(current.ID)

	seeded, err := s.teamRepo.CountBySeason(ctx, nextID)
	if err != nil {
		return "", false, fmt.Errorf("count next season teams: %w", err)
	}
	if seeded > 0 {
		return nextID, false, nil
	}

	nextTeams, err := s.buildNextSeasonTeams(ctx, current.ID, nextID)
	if err != nil {
		return "", false, err
	}

	created, err := s.seasonRepo.Create(ctx, season.Season{ID: nextID, CreatedAt: s.clock.Now().UTC()})
	if err != nil {
		return "", false, fmt.Errorf("create next season: %w", err)
	}
	if !created {
		// Another rollover beat us to the season row; let it finish seeding.
		return nextID, false, nil
	}

	if err := s.teamRepo.InsertBatch(ctx, nextTeams); err != nil {
		if isConflict(err) {
			return nextID, false, nil
		}
		return "", false, fmt.Errorf("insert next season teams: %w", err)
	}

	if err := s.schedule.GenerateFixtures(ctx, nextID); err != nil {
		return "", false, fmt.Errorf("generate next season fixtures: %w", err)
	}

	s.logger.InfoContext(ctx, "season advanced",
		"season_id", current.ID,
		"next_season_id", nextID,
		"team_count", len(nextTeams),
	)

	return nextID, true, nil
}

func (s *ProgressionService) seasonComplete(ctx context.Context, seasonID string) (bool, error) {
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

// buildNextSeasonTeams computes every club's division for the new season
// and returns fresh rows with zeroed aggregates. For each adjacent division
// pair the top PromotionCount of the lower division trade places with the
// bottom PromotionCount of the upper one.
func (s *ProgressionService) buildNextSeasonTeams(ctx context.Context, currentSeasonID, nextSeasonID string) ([]team.Team, error) {
	byID := make(map[string]team.Team)
	nextDivision := make(map[string]int)
	tables := make(map[int][]standings.Row, s.rules.DivisionCount)

	for division := 1; division <= s.rules.DivisionCount; division++ {
		clubs, err := s.teamRepo.ListByDivision(ctx, currentSeasonID, division)
		if err != nil {
			return nil, fmt.Errorf("list division %d teams: %w", division, err)
		}
		for _, club := range clubs {
			byID[club.ID] = club
			nextDivision[club.ID] = division
		}
		tables[division] = standings.FromTeams(clubs)
	}

	swaps := s.rules.PromotionCount
	for upper := 1; upper < s.rules.DivisionCount; upper++ {
		lower := upper + 1
		upperTable := tables[upper]
		lowerTable := tables[lower]
		count := swaps
		if count > len(upperTable) {
			count = len(upperTable)
		}
		if count > len(lowerTable) {
			count = len(lowerTable)
		}

		for i := 0; i < count; i++ {
			relegated := upperTable[len(upperTable)-1-i]
			promoted := lowerTable[i]
			nextDivision[relegated.TeamID] = lower
			nextDivision[promoted.TeamID] = upper
		}
	}

	nextTeams := make([]team.Team, 0, len(byID))
	for division := 1; division <= s.rules.DivisionCount; division++ {
		for _, row := range tables[division] {
			club := byID[row.TeamID]
			teamID, err := s.idGen.NewID()
			if err != nil {
				return nil, fmt.Errorf("generate team id: %w", err)
			}

			nextTeams = append(nextTeams, team.Team{
				ID:             teamID,
				SeasonID:       nextSeasonID,
				Division:       nextDivision[club.ID],
				ParticipantRef: club.ParticipantRef,
				Name:           club.Name,
				Rating:         club.Rating,
			})
		}
	}

	return nextTeams, nil
}
