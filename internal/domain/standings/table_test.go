package standings

import (
	"testing"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/team"
	"github.com/stretchr/testify/require"
)

func scorePtr(v int) *int { return &v }

func TestFromTeams_TieBreakOrder(t *testing.T) {
	teams := []team.Team{
		{ID: "t-a", SeasonID: "S1", Division: 1, Name: "Alpha", Points: 6, Won: 2, GoalsFor: 5, GoalsAgainst: 2},
		{ID: "t-b", SeasonID: "S1", Division: 1, Name: "Bravo", Points: 6, Won: 2, GoalsFor: 6, GoalsAgainst: 3},
		{ID: "t-c", SeasonID: "S1", Division: 1, Name: "Charlie", Points: 6, Won: 2, GoalsFor: 7, GoalsAgainst: 4},
		{ID: "t-d", SeasonID: "S1", Division: 1, Name: "Delta", Points: 9, Won: 3, GoalsFor: 3, GoalsAgainst: 0},
	}

	rows := FromTeams(teams)

	require.Len(t, rows, 4)
	// Delta leads on points; the three 6-point teams all sit on +3 goal
	// difference, so goals-for decides, then name.
	require.Equal(t, "t-d", rows[0].TeamID)
	require.Equal(t, "t-c", rows[1].TeamID)
	require.Equal(t, "t-b", rows[2].TeamID)
	require.Equal(t, "t-a", rows[3].TeamID)
	for i, row := range rows {
		require.Equal(t, i+1, row.Position)
	}
}

func TestFromFixtures_MatchesTeamCounters(t *testing.T) {
	teams := []team.Team{
		{ID: "t-a", SeasonID: "S1", Division: 1, Name: "Alpha"},
		{ID: "t-b", SeasonID: "S1", Division: 1, Name: "Bravo"},
		{ID: "t-c", SeasonID: "S1", Division: 1, Name: "Charlie"},
	}
	fixtures := []fixture.Fixture{
		{ID: "f-1", SeasonID: "S1", Division: 1, Gameweek: 1, HomeTeamID: "t-a", AwayTeamID: "t-b",
			Status: fixture.StatusCompleted, HomeScore: scorePtr(2), AwayScore: scorePtr(1)},
		{ID: "f-2", SeasonID: "S1", Division: 1, Gameweek: 2, HomeTeamID: "t-b", AwayTeamID: "t-c",
			Status: fixture.StatusCompleted, HomeScore: scorePtr(0), AwayScore: scorePtr(0)},
		{ID: "f-3", SeasonID: "S1", Division: 1, Gameweek: 3, HomeTeamID: "t-c", AwayTeamID: "t-a",
			Status: fixture.StatusScheduled},
	}

	rows := FromFixtures(teams, fixtures)

	byID := make(map[string]Row, len(rows))
	totalPoints := 0
	for _, row := range rows {
		byID[row.TeamID] = row
		totalPoints += row.Points
	}

	require.Equal(t, 3, byID["t-a"].Points)
	require.Equal(t, 1, byID["t-a"].Played)
	require.Equal(t, 1, byID["t-b"].Points)
	require.Equal(t, 2, byID["t-b"].Played)
	require.Equal(t, 1, byID["t-c"].Points)
	require.Equal(t, 0, byID["t-c"].Played)

	// One decided fixture and one draw: 3*1 + 1*2 points in total, the
	// scheduled fixture contributes nothing.
	require.Equal(t, 5, totalPoints)
}

func TestPointsFor(t *testing.T) {
	require.Equal(t, 3, PointsFor(2, 0))
	require.Equal(t, 1, PointsFor(1, 1))
	require.Equal(t, 0, PointsFor(0, 3))
}
