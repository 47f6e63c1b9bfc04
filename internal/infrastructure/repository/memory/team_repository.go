package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/club-league/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		items: make(map[string]team.Team),
	}
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sortTeams(out)

	return out, nil
}

func (r *TeamRepository) ListByDivision(_ context.Context, seasonID string, division int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID && item.Division == division {
			out = append(out, item)
		}
	}
	sortTeams(out)

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return item, true, nil
}

func (r *TeamRepository) GetByParticipant(_ context.Context, seasonID, participantRef string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SeasonID == seasonID && item.ParticipantRef == participantRef {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) CountBySeason(_ context.Context, seasonID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			count++
		}
	}

	return count, nil
}

func (r *TeamRepository) InsertBatch(_ context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror the unique indexes: team id, club name per season, and one
	// team per participant per season. Any clash aborts the whole batch.
	for _, item := range items {
		if _, exists := r.items[item.ID]; exists {
			return team.ErrConflict
		}
		for _, stored := range r.items {
			if stored.SeasonID != item.SeasonID {
				continue
			}
			if stored.Name == item.Name {
				return team.ErrConflict
			}
			if strings.TrimSpace(item.ParticipantRef) != "" && stored.ParticipantRef == item.ParticipantRef {
				return team.ErrConflict
			}
		}
	}

	for _, item := range items {
		r.items[item.ID] = item
	}

	return nil
}

func (r *TeamRepository) Claim(_ context.Context, teamID, participantRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[teamID]
	if !ok || !item.IsAI() {
		return false, nil
	}
	for _, stored := range r.items {
		if stored.SeasonID == item.SeasonID && stored.ParticipantRef == participantRef {
			return false, nil
		}
	}

	item.ParticipantRef = participantRef
	r.items[teamID] = item
	return true, nil
}

// ApplyDelta is used by the fixture repository to keep a completion's team
// updates under the same logical operation.
func (r *TeamRepository) ApplyDelta(delta team.ResultDelta) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[delta.TeamID]
	if !ok {
		return false
	}

	item.Points += delta.Points
	item.Won += delta.Won
	item.Drawn += delta.Drawn
	item.Lost += delta.Lost
	item.GoalsFor += delta.GoalsFor
	item.GoalsAgainst += delta.GoalsAgainst
	r.items[delta.TeamID] = item

	return true
}

func sortTeams(items []team.Team) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Division != items[j].Division {
			return items[i].Division < items[j].Division
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
