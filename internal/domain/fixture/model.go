package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
)

// Fixture is one scheduled match between two clubs of the same division.
// Status only ever moves SCHEDULED -> COMPLETED; a completed fixture is
// never simulated again.
type Fixture struct {
	ID         string
	Ref        string // stable external handle, set lazily on first exposure
	SeasonID   string
	Division   int
	Gameweek   int
	HomeTeamID string
	AwayTeamID string
	HomeScore  *int
	AwayScore  *int
	Status     string
	MatchDate  time.Time
}

func (f Fixture) IsCompleted() bool {
	return NormalizeStatus(f.Status) == StatusCompleted
}

func (f Fixture) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("fixture id is required")
	}
	if strings.TrimSpace(f.SeasonID) == "" {
		return fmt.Errorf("fixture season id is required")
	}
	if f.Division < 1 {
		return fmt.Errorf("fixture division must be >= 1")
	}
	if f.Gameweek < 1 {
		return fmt.Errorf("fixture gameweek must be >= 1")
	}
	if strings.TrimSpace(f.HomeTeamID) == "" || strings.TrimSpace(f.AwayTeamID) == "" {
		return fmt.Errorf("fixture team ids are required")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture cannot pair a team with itself")
	}

	return nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}
