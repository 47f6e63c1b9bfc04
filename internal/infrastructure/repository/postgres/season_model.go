package postgres

import (
	"time"

	"github.com/riskibarqy/club-league/internal/domain/season"
)

type seasonTableModel struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

func (m seasonTableModel) toDomain() season.Season {
	return season.Season{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
	}
}
