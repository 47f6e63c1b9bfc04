package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/club-league/internal/domain/team"
)

type teamTableModel struct {
	ID             string         `db:"id"`
	SeasonID       string         `db:"season_id"`
	Division       int            `db:"division"`
	ParticipantRef sql.NullString `db:"participant_ref"`
	Name           string         `db:"name"`
	Rating         float64        `db:"rating"`
	Points         int            `db:"points"`
	Won            int            `db:"won"`
	Drawn          int            `db:"drawn"`
	Lost           int            `db:"lost"`
	GoalsFor       int            `db:"goals_for"`
	GoalsAgainst   int            `db:"goals_against"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:             m.ID,
		SeasonID:       m.SeasonID,
		Division:       m.Division,
		ParticipantRef: m.ParticipantRef.String,
		Name:           m.Name,
		Rating:         m.Rating,
		Points:         m.Points,
		Won:            m.Won,
		Drawn:          m.Drawn,
		Lost:           m.Lost,
		GoalsFor:       m.GoalsFor,
		GoalsAgainst:   m.GoalsAgainst,
	}
}

// participantRefValue maps an empty ref to NULL so the partial unique index
// on (season_id, participant_ref) only guards human clubs.
func participantRefValue(ref string) sql.NullString {
	if ref == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: ref, Valid: true}
}
