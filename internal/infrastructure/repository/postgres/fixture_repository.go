package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/team"
	qb "github.com/riskibarqy/club-league/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, seasonID string) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("gameweek", "division", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, seasonID string, gameweek int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("gameweek", gameweek),
		).
		OrderBy("division", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list gameweek fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	return r.getOne(ctx, qb.Eq("id", fixtureID))
}

func (r *FixtureRepository) GetByRef(ctx context.Context, ref string) (fixture.Fixture, bool, error) {
	return r.getOne(ctx, qb.Eq("ref", ref))
}

func (r *FixtureRepository) getOne(ctx context.Context, condition qb.Condition) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(condition).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *FixtureRepository) InsertBatch(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	builder := qb.InsertInto("fixtures").Columns(
		"id", "ref", "season_id", "division", "gameweek",
		"home_team_id", "away_team_id", "status", "match_date",
		"created_at", "updated_at",
	)
	for _, item := range items {
		builder.Values(
			item.ID, refValue(item.Ref), item.SeasonID, item.Division, item.Gameweek,
			item.HomeTeamID, item.AwayTeamID, fixture.NormalizeStatus(item.Status), item.MatchDate,
			now, now,
		)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert fixtures query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fixture.ErrConflict
		}
		return fmt.Errorf("insert fixtures: %w", err)
	}

	return nil
}

func (r *FixtureRepository) CountByDivision(ctx context.Context, seasonID string, division int) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("fixtures").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("division", division),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count division fixtures query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count division fixtures: %w", err)
	}

	return count, nil
}

func (r *FixtureRepository) CountByStatus(ctx context.Context, seasonID, status string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("fixtures").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("status", fixture.NormalizeStatus(status)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count fixtures by status query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count fixtures by status: %w", err)
	}

	return count, nil
}

func (r *FixtureRepository) MaxGameweek(ctx context.Context, seasonID string) (int, error) {
	query, args, err := qb.Select("COALESCE(MAX(gameweek), 0)").From("fixtures").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build max gameweek query: %w", err)
	}

	var max int
	if err := r.db.GetContext(ctx, &max, query, args...); err != nil {
		return 0, fmt.Errorf("max gameweek: %w", err)
	}

	return max, nil
}

func (r *FixtureRepository) MinScheduledGameweek(ctx context.Context, seasonID string) (int, bool, error) {
	query, args, err := qb.Select("COALESCE(MIN(gameweek), 0)").From("fixtures").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("status", fixture.StatusScheduled),
		).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build min scheduled gameweek query: %w", err)
	}

	var min int
	if err := r.db.GetContext(ctx, &min, query, args...); err != nil {
		return 0, false, fmt.Errorf("min scheduled gameweek: %w", err)
	}
	if min == 0 {
		return 0, false, nil
	}

	return min, true, nil
}

func (r *FixtureRepository) EnsureRef(ctx context.Context, fixtureID, candidate string) (string, error) {
	query, args, err := qb.Update("fixtures").
		Set("ref", candidate).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", fixtureID),
			qb.IsNull("ref"),
		).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build ensure ref query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("ensure fixture ref: %w", err)
	}

	// Either our candidate stuck or an earlier ref was already there; read
	// back whichever won.
	stored, exists, err := r.GetByID(ctx, fixtureID)
	if err != nil {
		return "", fmt.Errorf("re-read fixture ref: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("fixture %s not found", fixtureID)
	}

	return stored.Ref, nil
}

func (r *FixtureRepository) Complete(ctx context.Context, completion fixture.Completion) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin completion tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("fixtures").
		Set("status", fixture.StatusCompleted).
		Set("home_score", completion.HomeScore).
		Set("away_score", completion.AwayScore).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", completion.FixtureID),
			qb.Eq("status", fixture.StatusScheduled),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build complete fixture query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("complete fixture: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete fixture rows affected: %w", err)
	}
	if affected == 0 {
		// Already completed; the concurrent winner's team updates stand.
		return false, nil
	}

	if err := applyDelta(ctx, tx, completion.Home); err != nil {
		return false, err
	}
	if err := applyDelta(ctx, tx, completion.Away); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit completion tx: %w", err)
	}

	return true, nil
}

func applyDelta(ctx context.Context, tx *sqlx.Tx, delta team.ResultDelta) error {
	query, args, err := qb.Update("teams").
		SetExpr("points", "points + ?", delta.Points).
		SetExpr("won", "won + ?", delta.Won).
		SetExpr("drawn", "drawn + ?", delta.Drawn).
		SetExpr("lost", "lost + ?", delta.Lost).
		SetExpr("goals_for", "goals_for + ?", delta.GoalsFor).
		SetExpr("goals_against", "goals_against + ?", delta.GoalsAgainst).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", delta.TeamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build team delta query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply team delta: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("team delta rows affected: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("team %s not found for delta update", delta.TeamID)
	}

	return nil
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
