package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-league/internal/domain/team"
	qb "github.com/riskibarqy/club-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("division", "name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) ListByDivision(ctx context.Context, seasonID string, division int) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("division", division),
		).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list division teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list division teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) GetByParticipant(ctx context.Context, seasonID, participantRef string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("participant_ref", participantRef),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by participant query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by participant: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) CountBySeason(ctx context.Context, seasonID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("teams").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count season teams query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count season teams: %w", err)
	}

	return count, nil
}

func (r *TeamRepository) InsertBatch(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	builder := qb.InsertInto("teams").Columns(
		"id", "season_id", "division", "participant_ref", "name", "rating",
		"points", "won", "drawn", "lost", "goals_for", "goals_against",
		"created_at", "updated_at",
	)
	for _, item := range items {
		builder.Values(
			item.ID, item.SeasonID, item.Division, participantRefValue(item.ParticipantRef),
			item.Name, item.Rating,
			item.Points, item.Won, item.Drawn, item.Lost, item.GoalsFor, item.GoalsAgainst,
			now, now,
		)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert teams query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return team.ErrConflict
		}
		return fmt.Errorf("insert teams: %w", err)
	}

	return nil
}

func (r *TeamRepository) Claim(ctx context.Context, teamID, participantRef string) (bool, error) {
	// The conditional update is the whole claim protocol: only a still-AI
	// row matches, so concurrent claimers race on RowsAffected.
	query, args, err := qb.Update("teams").
		Set("participant_ref", participantRef).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", teamID),
			qb.IsNull("participant_ref"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build claim team query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			// The participant already holds another club this season.
			return false, nil
		}
		return false, fmt.Errorf("claim team: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim team rows affected: %w", err)
	}

	return affected == 1, nil
}
