package standings

import (
	"sort"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/team"
)

// Row is one league-table line. Standings are a derived projection, never a
// durable entity: they can always be rebuilt from team counters or, for
// auditing, from raw fixture history.
type Row struct {
	TeamID         string
	Name           string
	ParticipantRef string
	Division       int
	Position       int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// FromTeams projects the table straight from team aggregate counters.
func FromTeams(teams []team.Team) []Row {
	rows := make([]Row, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, Row{
			TeamID:         t.ID,
			Name:           t.Name,
			ParticipantRef: t.ParticipantRef,
			Division:       t.Division,
			Played:         t.Played(),
			Won:            t.Won,
			Drawn:          t.Drawn,
			Lost:           t.Lost,
			GoalsFor:       t.GoalsFor,
			GoalsAgainst:   t.GoalsAgainst,
			GoalDifference: t.GoalDifference(),
			Points:         t.Points,
		})
	}

	rank(rows)
	return rows
}

// FromFixtures rebuilds the table purely from completed fixtures, ignoring
// the counters stored on the team rows. Used to audit that counters and
// fixture history never drift apart.
func FromFixtures(teams []team.Team, fixtures []fixture.Fixture) []Row {
	byID := make(map[string]*Row, len(teams))
	rows := make([]Row, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, Row{
			TeamID:         t.ID,
			Name:           t.Name,
			ParticipantRef: t.ParticipantRef,
			Division:       t.Division,
		})
	}
	for i := range rows {
		byID[rows[i].TeamID] = &rows[i]
	}

	for _, f := range fixtures {
		if !f.IsCompleted() || f.HomeScore == nil || f.AwayScore == nil {
			continue
		}
		home, okHome := byID[f.HomeTeamID]
		away, okAway := byID[f.AwayTeamID]
		if !okHome || !okAway {
			continue
		}

		applyResult(home, *f.HomeScore, *f.AwayScore)
		applyResult(away, *f.AwayScore, *f.HomeScore)
	}

	rank(rows)
	return rows
}

// PointsFor returns the league points a score awards: 3 win, 1 draw, 0 loss.
func PointsFor(goalsFor, goalsAgainst int) int {
	switch {
	case goalsFor > goalsAgainst:
		return 3
	case goalsFor == goalsAgainst:
		return 1
	default:
		return 0
	}
}

func applyResult(row *Row, goalsFor, goalsAgainst int) {
	row.Played++
	row.GoalsFor += goalsFor
	row.GoalsAgainst += goalsAgainst
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	row.Points += PointsFor(goalsFor, goalsAgainst)

	switch {
	case goalsFor > goalsAgainst:
		row.Won++
	case goalsFor == goalsAgainst:
		row.Drawn++
	default:
		row.Lost++
	}
}

// rank orders rows by points desc, goal difference desc, goals-for desc,
// then name asc as the final deterministic tie-break, and numbers positions.
func rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		if rows[i].GoalsFor != rows[j].GoalsFor {
			return rows[i].GoalsFor > rows[j].GoalsFor
		}
		return rows[i].Name < rows[j].Name
	})

	for i := range rows {
		rows[i].Position = i + 1
	}
}
