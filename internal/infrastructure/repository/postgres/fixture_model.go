package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID         string         `db:"id"`
	Ref        sql.NullString `db:"ref"`
	SeasonID   string         `db:"season_id"`
	Division   int            `db:"division"`
	Gameweek   int            `db:"gameweek"`
	HomeTeamID string         `db:"home_team_id"`
	AwayTeamID string         `db:"away_team_id"`
	HomeScore  sql.NullInt64  `db:"home_score"`
	AwayScore  sql.NullInt64  `db:"away_score"`
	Status     string         `db:"status"`
	MatchDate  time.Time      `db:"match_date"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.ID,
		Ref:        m.Ref.String,
		SeasonID:   m.SeasonID,
		Division:   m.Division,
		Gameweek:   m.Gameweek,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  nullInt64ToIntPtr(m.HomeScore),
		AwayScore:  nullInt64ToIntPtr(m.AwayScore),
		Status:     fixture.NormalizeStatus(m.Status),
		MatchDate:  m.MatchDate,
	}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	score := int(value.Int64)
	return &score
}

func refValue(ref string) sql.NullString {
	if ref == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: ref, Valid: true}
}
