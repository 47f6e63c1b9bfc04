package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "status").
		From("fixtures").
		Where(Eq("season_id", "S1"), Eq("gameweek", 3)).
		OrderBy("gameweek", "id").
		Limit(10).
		ToSQL()

	require.NoError(t, err)
	require.Equal(t, "SELECT id, status FROM fixtures WHERE season_id = $1 AND gameweek = $2 ORDER BY gameweek, id LIMIT 10", query)
	require.Equal(t, []any{"S1", 3}, args)
}

func TestSelectBuilder_InAndExpr(t *testing.T) {
	query, args, err := Select("*").
		From("teams").
		Where(
			In("division", []any{1, 2}),
			Expr("participant_ref IS NOT NULL"),
		).
		ToSQL()

	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM teams WHERE division IN ($1, $2) AND participant_ref IS NOT NULL", query)
	require.Equal(t, []any{1, 2}, args)
}

func TestInsertBuilder_MultiRowWithSuffix(t *testing.T) {
	query, args, err := InsertInto("seasons").
		Columns("id", "created_at").
		Values("S1", "now").
		Values("S2", "later").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()

	require.NoError(t, err)
	require.Equal(t, "INSERT INTO seasons (id, created_at) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING", query)
	require.Len(t, args, 4)
}

func TestInsertBuilder_RowShapeMismatch(t *testing.T) {
	_, _, err := InsertInto("seasons").
		Columns("id", "created_at").
		Values("S1").
		ToSQL()

	require.Error(t, err)
}

func TestUpdateBuilder_SetExprAndConditionalWhere(t *testing.T) {
	query, args, err := Update("fixtures").
		Set("status", "COMPLETED").
		SetExpr("home_score", "?", 2).
		Where(Eq("id", "f-1"), Eq("status", "SCHEDULED")).
		ToSQL()

	require.NoError(t, err)
	require.Equal(t, "UPDATE fixtures SET status = $1, home_score = $2 WHERE id = $3 AND status = $4", query)
	require.Equal(t, []any{"COMPLETED", 2, "f-1", "SCHEDULED"}, args)
}
