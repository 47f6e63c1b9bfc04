package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/league"
	"github.com/riskibarqy/club-league/internal/domain/standings"
	"github.com/riskibarqy/club-league/internal/domain/team"
	idgen "github.com/riskibarqy/club-league/internal/platform/id"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// TeamService is the team/division registry: it seeds a season's divisions
// with human and AI clubs and hands late-joining participants a club.
type TeamService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	rules       league.Rules
	idGen       idgen.Generator
	logger      *logging.Logger
}

func NewTeamService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	rules league.Rules,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		rules:       rules,
		idGen:       idGen,
		logger:      logger,
	}
}

// EnsureParticipantTeam returns the participant's club for the season,
// assigning one when they have none yet. Division sizes are fixed, so a
// participant joining an already-seeded season takes over an AI club
// (lowest division number first) via an atomic claim; a brand-new season
// with room in division 1 gets a fresh row instead.
func (s *TeamService) EnsureParticipantTeam(ctx context.Context, seasonID, participantRef string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.EnsureParticipantTeam")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	participantRef = strings.TrimSpace(participantRef)
	if seasonID == "" {
		return team.Team{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if participantRef == "" {
		return team.Team{}, fmt.Errorf("%w: participant ref is required", ErrInvalidInput)
	}

	existing, exists, err := s.teamRepo.GetByParticipant(ctx, seasonID, participantRef)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by participant: %w", err)
	}
	if exists {
		return existing, nil
	}

	claimed, ok, err := s.claimAITeam(ctx, seasonID, participantRef)
	if err != nil {
		return team.Team{}, err
	}
	if ok {
		s.logger.InfoContext(ctx, "participant claimed ai club",
			"season_id", seasonID,
			"participant_ref", participantRef,
			"team_id", claimed.ID,
			"division", claimed.Division,
		)
		return claimed, nil
	}

	return s.insertFreshTeam(ctx, seasonID, participantRef)
}

func (s *TeamService) claimAITeam(ctx context.Context, seasonID, participantRef string) (team.Team, bool, error) {
	for division := 1; division <= s.rules.DivisionCount; division++ {
		clubs, err := s.teamRepo.ListByDivision(ctx, seasonID, division)
		if err != nil {
			return team.Team{}, false, fmt.Errorf("list division %d teams: %w", division, err)
		}

		for _, club := range clubs {
			if !club.IsAI() {
				continue
			}

			won, err := s.teamRepo.Claim(ctx, club.ID, participantRef)
			if err != nil {
				return team.Team{}, false, fmt.Errorf("claim team %s: %w", club.ID, err)
			}
			if !won {
				continue
			}

			claimed, exists, err := s.teamRepo.GetByID(ctx, club.ID)
			if err != nil {
				return team.Team{}, false, fmt.Errorf("re-read claimed team: %w", err)
			}
			if !exists {
				return team.Team{}, false, fmt.Errorf("claimed team %s vanished", club.ID)
			}

			return claimed, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (s *TeamService) insertFreshTeam(ctx context.Context, seasonID, participantRef string) (team.Team, error) {
	divisionOne, err := s.teamRepo.ListByDivision(ctx, seasonID, 1)
	if err != nil {
		return team.Team{}, fmt.Errorf("list division 1 teams: %w", err)
	}
	if len(divisionOne) >= s.rules.DivisionSize {
		return team.Team{}, fmt.Errorf("%w: no open club slot in season %s", ErrInvalidState, seasonID)
	}

	generated, err := s.fixtureRepo.CountByDivision(ctx, seasonID, 1)
	if err != nil {
		return team.Team{}, fmt.Errorf("count division 1 fixtures: %w", err)
	}
	if generated > 0 {
		// The calendar is already out; a new row would never get fixtures.
		return team.Team{}, fmt.Errorf("%w: season %s already scheduled", ErrInvalidState, seasonID)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	fresh := team.Team{
		ID:             teamID,
		SeasonID:       seasonID,
		Division:       1,
		ParticipantRef: participantRef,
		Name:           fmt.Sprintf("%s FC", participantRef),
		Rating:         (s.rules.AIRatingMin + s.rules.AIRatingMax) / 2,
	}
	if err := fresh.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.InsertBatch(ctx, []team.Team{fresh}); err != nil {
		if isConflict(err) {
			// Lost an insert race against ourselves; the stored row wins.
			stored, exists, readErr := s.teamRepo.GetByParticipant(ctx, seasonID, participantRef)
			if readErr == nil && exists {
				return stored, nil
			}
		}
		return team.Team{}, fmt.Errorf("insert participant team: %w", err)
	}

	s.logger.InfoContext(ctx, "participant team created",
		"season_id", seasonID,
		"participant_ref", participantRef,
		"team_id", fresh.ID,
	)

	return fresh, nil
}

// CreateSeasonTeams seeds every division of a fresh season up to the fixed
// divisional size, humans first, AI clubs filling the remainder. It is a
// no-op when the season already has teams, so concurrent bootstraps and
// repeated job runs are safe.
func (s *TeamService) CreateSeasonTeams(ctx context.Context, seasonID string, participantRefs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateSeasonTeams")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	count, err := s.teamRepo.CountBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("count season teams: %w", err)
	}
	if count > 0 {
		return nil
	}

	capacity := s.rules.DivisionCount * s.rules.DivisionSize
	refs := dedupeRefs(participantRefs)
	if len(refs) > capacity {
		return fmt.Errorf("%w: %d participants exceed league capacity %d", ErrInvalidInput, len(refs), capacity)
	}

	teams := make([]team.Team, 0, capacity)
	usedNames := make(map[string]bool, capacity)
	slot := 0
	for division := 1; division <= s.rules.DivisionCount; division++ {
		for position := 0; position < s.rules.DivisionSize; position++ {
			teamID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate team id: %w", err)
			}

			var club team.Team
			if slot < len(refs) {
				club = team.Team{
					SeasonID:       seasonID,
					Division:       division,
					ParticipantRef: refs[slot],
					Name:           fmt.Sprintf("%s FC", refs[slot]),
					Rating:         (s.rules.AIRatingMin + s.rules.AIRatingMax) / 2,
				}
			} else {
				club = team.GenerateAI(seasonID, division, position, s.rules.AIRatingMin, s.rules.AIRatingMax)
			}
			club.ID = teamID

			// Club names are unique per season; disambiguate hash collisions
			// between generated names deterministically.
			if usedNames[club.Name] {
				club.Name = fmt.Sprintf("%s %d", club.Name, division*s.rules.DivisionSize+position)
			}
			usedNames[club.Name] = true

			if err := club.Validate(); err != nil {
				return fmt.Errorf("validate generated team: %w", err)
			}
			teams = append(teams, club)
			slot++
		}
	}

	if err := s.teamRepo.InsertBatch(ctx, teams); err != nil {
		if isConflict(err) {
			s.logger.InfoContext(ctx, "season teams already seeded", "season_id", seasonID)
			return nil
		}
		return fmt.Errorf("insert season teams: %w", err)
	}

	s.logger.InfoContext(ctx, "season teams created",
		"season_id", seasonID,
		"team_count", len(teams),
		"participant_count", len(refs),
	)

	return nil
}

// TeamForParticipant is the read-side lookup used by the HTTP layer.
func (s *TeamService) TeamForParticipant(ctx context.Context, seasonID, participantRef string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.TeamForParticipant")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	participantRef = strings.TrimSpace(participantRef)
	if seasonID == "" || participantRef == "" {
		return team.Team{}, fmt.Errorf("%w: season id and participant ref are required", ErrInvalidInput)
	}

	found, exists, err := s.teamRepo.GetByParticipant(ctx, seasonID, participantRef)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by participant: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: no team for participant %s in season %s", ErrNotFound, participantRef, seasonID)
	}

	return found, nil
}

// SeasonTeams lists every club of the season across all divisions.
func (s *TeamService) SeasonTeams(ctx context.Context, seasonID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SeasonTeams")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	clubs, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}

	return clubs, nil
}

// DivisionStandings projects the current league table for one division.
func (s *TeamService) DivisionStandings(ctx context.Context, seasonID string, division int) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DivisionStandings")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if division < 1 || division > s.rules.DivisionCount {
		return nil, fmt.Errorf("%w: division %d is out of range 1..%d", ErrInvalidInput, division, s.rules.DivisionCount)
	}

	clubs, err := s.teamRepo.ListByDivision(ctx, seasonID, division)
	if err != nil {
		return nil, fmt.Errorf("list division teams: %w", err)
	}

	return standings.FromTeams(clubs), nil
}

func dedupeRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}
