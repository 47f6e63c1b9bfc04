package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/standings"
	"github.com/riskibarqy/club-league/internal/domain/team"
	"github.com/riskibarqy/club-league/internal/platform/logging"
	"github.com/riskibarqy/club-league/internal/usecase"
)

type Handler struct {
	seasonService      *usecase.SeasonService
	teamService        *usecase.TeamService
	scheduleService    *usecase.ScheduleService
	matchService       *usecase.MatchService
	gameweekService    *usecase.GameweekService
	progressionService *usecase.ProgressionService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	teamService *usecase.TeamService,
	scheduleService *usecase.ScheduleService,
	matchService *usecase.MatchService,
	gameweekService *usecase.GameweekService,
	progressionService *usecase.ProgressionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:      seasonService,
		teamService:        teamService,
		scheduleService:    scheduleService,
		matchService:       matchService,
		gameweekService:    gameweekService,
		progressionService: progressionService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeason")
	defer span.End()

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	gameweek, err := h.seasonService.CurrentGameweek(ctx, current.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "current gameweek failed", "season_id", current.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	complete, err := h.seasonService.IsComplete(ctx, current.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "season completeness check failed", "season_id", current.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonDTO{
		ID:              current.ID,
		CurrentGameweek: gameweek,
		Complete:        complete,
		CreatedAt:       current.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	division, err := queryIntDefault(r, "division", 1)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	rows, err := h.teamService.DivisionStandings(ctx, current.ID, division)
	if err != nil {
		h.logger.WarnContext(ctx, "division standings failed", "season_id", current.ID, "division", division, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	gameweek, err := queryIntDefault(r, "gameweek", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if gameweek == 0 {
		gameweek, err = h.seasonService.CurrentGameweek(ctx, current.ID)
		if err != nil {
			h.logger.WarnContext(ctx, "current gameweek failed", "season_id", current.ID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	fixtures, err := h.scheduleService.FixturesForGameweek(ctx, current.ID, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list gameweek fixtures failed", "season_id", current.ID, "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	clubs, err := h.teamService.SeasonTeams(ctx, current.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list season teams failed while mapping fixtures", "season_id", current.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	clubNameByID := make(map[string]string, len(clubs))
	for _, club := range clubs {
		clubNameByID[club.ID] = club.Name
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f, clubNameByID[f.HomeTeamID], clubNameByID[f.AwayTeamID]))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	participantRef, ok := participantFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: participant is missing from request context", usecase.ErrUnauthorized))
		return
	}

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	club, err := h.teamService.TeamForParticipant(ctx, current.ID, participantRef)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(club))
}

func (h *Handler) EnsureMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnsureMyTeam")
	defer span.End()

	participantRef, ok := participantFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: participant is missing from request context", usecase.ErrUnauthorized))
		return
	}

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	club, err := h.teamService.EnsureParticipantTeam(ctx, current.ID, participantRef)
	if err != nil {
		h.logger.WarnContext(ctx, "ensure participant team failed",
			"season_id", current.ID,
			"participant_ref", participantRef,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(club))
}

func (h *Handler) SimulateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SimulateFixture")
	defer span.End()

	participantRef, ok := participantFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: participant is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureRef := strings.TrimSpace(r.PathValue("fixtureRef"))
	outcome, err := h.matchService.Simulate(ctx, fixtureRef, participantRef)
	if err != nil {
		h.logger.WarnContext(ctx, "simulate fixture failed",
			"fixture_ref", fixtureRef,
			"participant_ref", participantRef,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchOutcomeToDTO(outcome))
}

func (h *Handler) RunGameweekSimulationJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGameweekSimulationJob")
	defer span.End()

	var req simulateGameweekRequest
	if err := h.decodeOptionalBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	gameweek := req.Gameweek
	if gameweek == 0 {
		gameweek, err = h.seasonService.CurrentGameweek(ctx, current.ID)
		if err != nil {
			h.logger.WarnContext(ctx, "current gameweek failed", "season_id", current.ID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	result, err := h.gameweekService.SimulateGameweek(ctx, current.ID, gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "gameweek simulation job failed",
			"season_id", current.ID,
			"gameweek", gameweek,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekResultToDTO(result))
}

func (h *Handler) RunSeasonAdvanceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeasonAdvanceJob")
	defer span.End()

	nextSeasonID, advanced, err := h.progressionService.AdvanceIfComplete(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "season advance job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonAdvanceDTO{
		NextSeasonID: nextSeasonID,
		Advanced:     advanced,
	})
}

func (h *Handler) RunSeasonBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeasonBootstrapJob")
	defer span.End()

	var req bootstrapSeasonRequest
	if err := h.decodeOptionalBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	current, err := h.seasonService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	if err := h.teamService.CreateSeasonTeams(ctx, current.ID, req.ParticipantRefs); err != nil {
		h.logger.ErrorContext(ctx, "season team seeding failed", "season_id", current.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if err := h.scheduleService.GenerateFixtures(ctx, current.ID); err != nil {
		h.logger.ErrorContext(ctx, "fixture generation failed", "season_id", current.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	gameweek, err := h.seasonService.CurrentGameweek(ctx, current.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "current gameweek failed", "season_id", current.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonDTO{
		ID:              current.ID,
		CurrentGameweek: gameweek,
		CreatedAt:       current.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// decodeOptionalBody reads a JSON body into dst, treating an absent or empty
// body as the zero value. Unknown fields are rejected.
func (h *Handler) decodeOptionalBody(ctx context.Context, r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func queryIntDefault(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}

	return value, nil
}

type simulateGameweekRequest struct {
	Gameweek int `json:"gameweek" validate:"omitempty,min=1"`
}

type bootstrapSeasonRequest struct {
	ParticipantRefs []string `json:"participantRefs" validate:"omitempty,dive,required"`
}

type seasonDTO struct {
	ID              string `json:"id"`
	CurrentGameweek int    `json:"currentGameweek"`
	Complete        bool   `json:"complete"`
	CreatedAt       string `json:"createdAt"`
}

type seasonAdvanceDTO struct {
	NextSeasonID string `json:"nextSeasonId,omitempty"`
	Advanced     bool   `json:"advanced"`
}

type teamDTO struct {
	ID             string  `json:"id"`
	SeasonID       string  `json:"seasonId"`
	Division       int     `json:"division"`
	Name           string  `json:"name"`
	ParticipantRef string  `json:"participantRef,omitempty"`
	Rating         float64 `json:"rating"`
	Played         int     `json:"played"`
	Won            int     `json:"won"`
	Drawn          int     `json:"drawn"`
	Lost           int     `json:"lost"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
	Points         int     `json:"points"`
}

type standingRowDTO struct {
	TeamID         string `json:"teamId"`
	Name           string `json:"name"`
	ParticipantRef string `json:"participantRef,omitempty"`
	Division       int    `json:"division"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type fixtureDTO struct {
	ID         string `json:"id"`
	Ref        string `json:"ref,omitempty"`
	SeasonID   string `json:"seasonId"`
	Division   int    `json:"division"`
	Gameweek   int    `json:"gameweek"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	HomeTeam   string `json:"homeTeam,omitempty"`
	AwayTeam   string `json:"awayTeam,omitempty"`
	HomeScore  *int   `json:"homeScore,omitempty"`
	AwayScore  *int   `json:"awayScore,omitempty"`
	Status     string `json:"status"`
	MatchDate  string `json:"matchDate"`
}

type matchOutcomeDTO struct {
	Fixture   fixtureDTO       `json:"fixture"`
	Home      teamDTO          `json:"home"`
	Away      teamDTO          `json:"away"`
	Standings []standingRowDTO `json:"standings"`
}

type gameweekFixtureDTO struct {
	FixtureID  string `json:"fixtureId"`
	FixtureRef string `json:"fixtureRef,omitempty"`
	Division   int    `json:"division"`
	Status     string `json:"status"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type gameweekResultDTO struct {
	SeasonID       string               `json:"seasonId"`
	Gameweek       int                  `json:"gameweek"`
	WorkerCount    int                  `json:"workerCount"`
	SimulatedCount int                  `json:"simulatedCount"`
	SkippedCount   int                  `json:"skippedCount"`
	FailedCount    int                  `json:"failedCount"`
	Fixtures       []gameweekFixtureDTO `json:"fixtures"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:             v.ID,
		SeasonID:       v.SeasonID,
		Division:       v.Division,
		Name:           v.Name,
		ParticipantRef: v.ParticipantRef,
		Rating:         v.Rating,
		Played:         v.Played(),
		Won:            v.Won,
		Drawn:          v.Drawn,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference(),
		Points:         v.Points,
	}
}

func standingRowToDTO(v standings.Row) standingRowDTO {
	return standingRowDTO{
		TeamID:         v.TeamID,
		Name:           v.Name,
		ParticipantRef: v.ParticipantRef,
		Division:       v.Division,
		Position:       v.Position,
		Played:         v.Played,
		Won:            v.Won,
		Drawn:          v.Drawn,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Points:         v.Points,
	}
}

func fixtureToDTO(v fixture.Fixture, homeName, awayName string) fixtureDTO {
	return fixtureDTO{
		ID:         v.ID,
		Ref:        v.Ref,
		SeasonID:   v.SeasonID,
		Division:   v.Division,
		Gameweek:   v.Gameweek,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		HomeTeam:   homeName,
		AwayTeam:   awayName,
		HomeScore:  v.HomeScore,
		AwayScore:  v.AwayScore,
		Status:     fixture.NormalizeStatus(v.Status),
		MatchDate:  v.MatchDate.UTC().Format(time.RFC3339),
	}
}

func matchOutcomeToDTO(v usecase.MatchOutcome) matchOutcomeDTO {
	rows := make([]standingRowDTO, 0, len(v.Standings))
	for _, row := range v.Standings {
		rows = append(rows, standingRowToDTO(row))
	}

	return matchOutcomeDTO{
		Fixture:   fixtureToDTO(v.Fixture, v.Home.Name, v.Away.Name),
		Home:      teamToDTO(v.Home),
		Away:      teamToDTO(v.Away),
		Standings: rows,
	}
}

func gameweekResultToDTO(v usecase.GameweekResult) gameweekResultDTO {
	rows := make([]gameweekFixtureDTO, 0, len(v.Fixtures))
	for _, row := range v.Fixtures {
		rows = append(rows, gameweekFixtureDTO{
			FixtureID:  row.FixtureID,
			FixtureRef: row.FixtureRef,
			Division:   row.Division,
			Status:     row.Status,
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
			Message:    row.Message,
			DurationMs: row.DurationMs,
		})
	}

	return gameweekResultDTO{
		SeasonID:       v.SeasonID,
		Gameweek:       v.Gameweek,
		WorkerCount:    v.WorkerCount,
		SimulatedCount: v.SimulatedCount,
		SkippedCount:   v.SkippedCount,
		FailedCount:    v.FailedCount,
		Fixtures:       rows,
	}
}
