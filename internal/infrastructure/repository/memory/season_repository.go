package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/club-league/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	items  map[string]season.Season
	orders []string
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		items: make(map[string]season.Season),
	}
}

func (r *SeasonRepository) GetCurrent(_ context.Context) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.orders) == 0 {
		return season.Season{}, false, nil
	}

	return r.items[r.orders[len(r.orders)-1]], true, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[seasonID]
	if !ok {
		return season.Season{}, false, nil
	}

	return item, true, nil
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return false, nil
	}

	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return true, nil
}
