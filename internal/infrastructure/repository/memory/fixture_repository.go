package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/club-league/internal/domain/fixture"
)

// FixtureRepository holds fixtures in memory. It keeps a reference to the
// team repository so Complete can apply the fixture transition and both
// team aggregate updates as one atomic step, matching the transactional
// behavior of the postgres implementation.
type FixtureRepository struct {
	mu    sync.RWMutex
	items map[string]fixture.Fixture
	byRef map[string]string

	teams *TeamRepository
}

func NewFixtureRepository(teams *TeamRepository) *FixtureRepository {
	return &FixtureRepository{
		items: make(map[string]fixture.Fixture),
		byRef: make(map[string]string),
		teams: teams,
	}
}

func (r *FixtureRepository) ListBySeason(_ context.Context, seasonID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sortFixtures(out)

	return out, nil
}

func (r *FixtureRepository) ListByGameweek(_ context.Context, seasonID string, gameweek int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID && item.Gameweek == gameweek {
			out = append(out, item)
		}
	}
	sortFixtures(out)

	return out, nil
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[fixtureID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}

	return item, true, nil
}

func (r *FixtureRepository) GetByRef(_ context.Context, ref string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fixtureID, ok := r.byRef[ref]
	if !ok {
		return fixture.Fixture{}, false, nil
	}

	return r.items[fixtureID], true, nil
}

func (r *FixtureRepository) InsertBatch(_ context.Context, items []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror the unique indexes: one home and one away appearance per team
	// per gameweek. Any clash aborts the whole batch.
	type slotKey struct {
		seasonID string
		gameweek int
		teamID   string
	}
	taken := make(map[slotKey]bool, len(r.items)*2)
	for _, stored := range r.items {
		taken[slotKey{stored.SeasonID, stored.Gameweek, stored.HomeTeamID}] = true
		taken[slotKey{stored.SeasonID, stored.Gameweek, stored.AwayTeamID}] = true
	}

	for _, item := range items {
		if _, exists := r.items[item.ID]; exists {
			return fixture.ErrConflict
		}
		homeKey := slotKey{item.SeasonID, item.Gameweek, item.HomeTeamID}
		awayKey := slotKey{item.SeasonID, item.Gameweek, item.AwayTeamID}
		if taken[homeKey] || taken[awayKey] {
			return fixture.ErrConflict
		}
		taken[homeKey] = true
		taken[awayKey] = true
	}

	for _, item := range items {
		r.items[item.ID] = item
		if strings.TrimSpace(item.Ref) != "" {
			r.byRef[item.Ref] = item.ID
		}
	}

	return nil
}

func (r *FixtureRepository) CountByDivision(_ context.Context, seasonID string, division int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.SeasonID == seasonID && item.Division == division {
			count++
		}
	}

	return count, nil
}

func (r *FixtureRepository) CountByStatus(_ context.Context, seasonID, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status = fixture.NormalizeStatus(status)
	count := 0
	for _, item := range r.items {
		if item.SeasonID == seasonID && fixture.NormalizeStatus(item.Status) == status {
			count++
		}
	}

	return count, nil
}

func (r *FixtureRepository) MaxGameweek(_ context.Context, seasonID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, item := range r.items {
		if item.SeasonID == seasonID && item.Gameweek > max {
			max = item.Gameweek
		}
	}

	return max, nil
}

func (r *FixtureRepository) MinScheduledGameweek(_ context.Context, seasonID string) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	min := 0
	found := false
	for _, item := range r.items {
		if item.SeasonID != seasonID || item.IsCompleted() {
			continue
		}
		if !found || item.Gameweek < min {
			min = item.Gameweek
			found = true
		}
	}

	return min, found, nil
}

func (r *FixtureRepository) EnsureRef(_ context.Context, fixtureID, candidate string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[fixtureID]
	if !ok {
		return "", fixture.ErrConflict
	}
	if strings.TrimSpace(item.Ref) != "" {
		return item.Ref, nil
	}

	item.Ref = candidate
	r.items[fixtureID] = item
	r.byRef[candidate] = fixtureID

	return candidate, nil
}

func (r *FixtureRepository) Complete(_ context.Context, completion fixture.Completion) (bool, error) {
	r.mu.Lock()
	item, ok := r.items[completion.FixtureID]
	if !ok || item.IsCompleted() {
		r.mu.Unlock()
		return false, nil
	}

	homeScore := completion.HomeScore
	awayScore := completion.AwayScore
	item.Status = fixture.StatusCompleted
	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	r.items[completion.FixtureID] = item
	r.mu.Unlock()

	// The status flip above is the commit point; racing completions lose
	// there, so the delta application cannot double-run.
	r.teams.ApplyDelta(completion.Home)
	r.teams.ApplyDelta(completion.Away)

	return true, nil
}

func sortFixtures(items []fixture.Fixture) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Gameweek != items[j].Gameweek {
			return items[i].Gameweek < items[j].Gameweek
		}
		if items[i].Division != items[j].Division {
			return items[i].Division < items[j].Division
		}
		return items[i].ID < items[j].ID
	})
}
