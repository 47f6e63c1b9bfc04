package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/league"
	"github.com/riskibarqy/club-league/internal/domain/simulation"
	"github.com/riskibarqy/club-league/internal/domain/standings"
	"github.com/riskibarqy/club-league/internal/domain/team"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// MatchOutcome is everything one simulation produced: the completed
// fixture, both updated club rows, and the division table after the result.
type MatchOutcome struct {
	Fixture   fixture.Fixture
	Home      team.Team
	Away      team.Team
	Standings []standings.Row
}

// MatchService simulates single fixtures. The completion itself is one
// atomic repository operation, so two racing simulations of the same
// fixture produce exactly one result.
type MatchService struct {
	fixtureRepo fixture.Repository
	teamRepo    team.Repository
	engine      *simulation.Engine
	economy     EconomyLedger
	roster      RosterSource
	rules       league.Rules
	logger      *logging.Logger
}

func NewMatchService(
	fixtureRepo fixture.Repository,
	teamRepo team.Repository,
	engine *simulation.Engine,
	economy EconomyLedger,
	roster RosterSource,
	rules league.Rules,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		fixtureRepo: fixtureRepo,
		teamRepo:    teamRepo,
		engine:      engine,
		economy:     economy,
		roster:      roster,
		rules:       rules,
		logger:      logger,
	}
}

// Simulate plays one fixture on behalf of a participant. The participant
// must control one of the two clubs.
func (s *MatchService) Simulate(ctx context.Context, fixtureRef, participantRef string) (MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Simulate")
	defer span.End()

	fixtureRef = strings.TrimSpace(fixtureRef)
	participantRef = strings.TrimSpace(participantRef)
	if fixtureRef == "" {
		return MatchOutcome{}, fmt.Errorf("%w: fixture ref is required", ErrInvalidInput)
	}
	if participantRef == "" {
		return MatchOutcome{}, fmt.Errorf("%w: participant ref is required", ErrInvalidInput)
	}

	item, exists, err := s.fixtureRepo.GetByRef(ctx, fixtureRef)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("get fixture by ref: %w", err)
	}
	if !exists {
		// Refs are assigned lazily; accept the raw row id as a fallback.
		item, exists, err = s.fixtureRepo.GetByID(ctx, fixtureRef)
		if err != nil {
			return MatchOutcome{}, fmt.Errorf("get fixture by id: %w", err)
		}
		if !exists {
			return MatchOutcome{}, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureRef)
		}
	}

	home, away, err := s.loadClubs(ctx, item)
	if err != nil {
		return MatchOutcome{}, err
	}
	if home.ParticipantRef != participantRef && away.ParticipantRef != participantRef {
		return MatchOutcome{}, fmt.Errorf("%w: participant %s controls neither club of fixture %s", ErrUnauthorized, participantRef, item.ID)
	}

	return s.simulate(ctx, item, home, away)
}

// SimulateSystem plays one fixture without participant authorization. The
// gameweek batch runner uses it.
func (s *MatchService) SimulateSystem(ctx context.Context, fixtureID string) (MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SimulateSystem")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return MatchOutcome{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	item, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("get fixture by id: %w", err)
	}
	if !exists {
		return MatchOutcome{}, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureID)
	}

	home, away, err := s.loadClubs(ctx, item)
	if err != nil {
		return MatchOutcome{}, err
	}

	return s.simulate(ctx, item, home, away)
}

func (s *MatchService) simulate(ctx context.Context, item fixture.Fixture, home, away team.Team) (MatchOutcome, error) {
	if item.IsCompleted() {
		return MatchOutcome{}, fmt.Errorf("%w: fixture %s is already completed", ErrInvalidState, item.ID)
	}

	ref, err := s.fixtureRepo.EnsureRef(ctx, item.ID, uuid.NewString())
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("ensure fixture ref: %w", err)
	}
	item.Ref = ref

	homeStrength, err := s.strengthFor(ctx, home)
	if err != nil {
		return MatchOutcome{}, err
	}
	awayStrength, err := s.strengthFor(ctx, away)
	if err != nil {
		return MatchOutcome{}, err
	}

	score := s.engine.Simulate(homeStrength, awayStrength)
	completion := fixture.Completion{
		FixtureID: item.ID,
		HomeScore: score.Home,
		AwayScore: score.Away,
		Home:      resultDelta(home.ID, score.Home, score.Away),
		Away:      resultDelta(away.ID, score.Away, score.Home),
	}

	won, err := s.fixtureRepo.Complete(ctx, completion)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("complete fixture: %w", err)
	}
	if !won {
		return MatchOutcome{}, fmt.Errorf("%w: fixture %s is already completed", ErrInvalidState, item.ID)
	}

	s.logger.InfoContext(ctx, "fixture simulated",
		"fixture_id", item.ID,
		"fixture_ref", item.Ref,
		"season_id", item.SeasonID,
		"division", item.Division,
		"gameweek", item.Gameweek,
		"home_score", score.Home,
		"away_score", score.Away,
	)

	s.payRewards(ctx, item.Ref, home, away, score)

	item.Status = fixture.StatusCompleted
	item.HomeScore = &score.Home
	item.AwayScore = &score.Away

	return s.buildOutcome(ctx, item)
}

// strengthFor resolves a club's effective strength. AI clubs play off their
// static rating; human clubs play off their live roster.
func (s *MatchService) strengthFor(ctx context.Context, club team.Team) (float64, error) {
	if club.IsAI() || s.roster == nil {
		return club.Rating, nil
	}

	strength, err := s.roster.RosterStrength(ctx, club.ParticipantRef)
	if err != nil {
		return 0, fmt.Errorf("%w: roster strength for %s: %v", ErrDependencyUnavailable, club.ParticipantRef, err)
	}

	return strength, nil
}

// payRewards posts match credits to human participants. A ledger failure
// never fails the simulation; the result already stands and the reason tag
// lets a retry job repost without double-paying.
func (s *MatchService) payRewards(ctx context.Context, fixtureRef string, home, away team.Team, score simulation.Score) {
	if s.economy == nil {
		return
	}

	credit := func(club team.Team, amount int64, result string) {
		if club.IsAI() || amount <= 0 {
			return
		}
		reasonTag := fmt.Sprintf("match:%s:%s", fixtureRef, result)
		if err := s.economy.CreditParticipant(ctx, club.ParticipantRef, amount, reasonTag); err != nil {
			s.logger.WarnContext(ctx, "match reward credit failed",
				"participant_ref", club.ParticipantRef,
				"reason_tag", reasonTag,
				"error", err.Error(),
			)
		}
	}

	switch {
	case score.Home > score.Away:
		credit(home, s.rules.WinReward, "win")
	case score.Away > score.Home:
		credit(away, s.rules.WinReward, "win")
	default:
		credit(home, s.rules.DrawReward, "draw")
		credit(away, s.rules.DrawReward, "draw")
	}
}

func (s *MatchService) loadClubs(ctx context.Context, item fixture.Fixture) (team.Team, team.Team, error) {
	home, exists, err := s.teamRepo.GetByID(ctx, item.HomeTeamID)
	if err != nil {
		return team.Team{}, team.Team{}, fmt.Errorf("get home team: %w", err)
	}
	if !exists {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: home team %s", ErrNotFound, item.HomeTeamID)
	}

	away, exists, err := s.teamRepo.GetByID(ctx, item.AwayTeamID)
	if err != nil {
		return team.Team{}, team.Team{}, fmt.Errorf("get away team: %w", err)
	}
	if !exists {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: away team %s", ErrNotFound, item.AwayTeamID)
	}

	return home, away, nil
}

func (s *MatchService) buildOutcome(ctx context.Context, item fixture.Fixture) (MatchOutcome, error) {
	home, away, err := s.loadClubs(ctx, item)
	if err != nil {
		return MatchOutcome{}, err
	}

	division, err := s.teamRepo.ListByDivision(ctx, item.SeasonID, item.Division)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("list division teams: %w", err)
	}

	return MatchOutcome{
		Fixture:   item,
		Home:      home,
		Away:      away,
		Standings: standings.FromTeams(division),
	}, nil
}

func resultDelta(teamID string, goalsFor, goalsAgainst int) team.ResultDelta {
	delta := team.ResultDelta{
		TeamID:       teamID,
		Points:       standings.PointsFor(goalsFor, goalsAgainst),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
	}
	switch {
	case goalsFor > goalsAgainst:
		delta.Won = 1
	case goalsFor == goalsAgainst:
		delta.Drawn = 1
	default:
		delta.Lost = 1
	}

	return delta
}
