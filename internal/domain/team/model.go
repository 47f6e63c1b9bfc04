package team

import (
	"fmt"
	"strings"
)

// Team is one club inside a season's division. Rows are created at season
// start and their aggregate counters are only touched by completed fixtures.
type Team struct {
	ID             string
	SeasonID       string
	Division       int
	ParticipantRef string // empty for AI-controlled clubs
	Name           string
	Rating         float64 // static strength used when no roster backs the club
	Points         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
}

func (t Team) IsAI() bool {
	return strings.TrimSpace(t.ParticipantRef) == ""
}

func (t Team) Played() int {
	return t.Won + t.Drawn + t.Lost
}

func (t Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.SeasonID) == "" {
		return fmt.Errorf("team season id is required")
	}
	if t.Division < 1 {
		return fmt.Errorf("team division must be >= 1")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Rating < 0 {
		return fmt.Errorf("team rating must be >= 0")
	}

	return nil
}

// ResultDelta is the aggregate increment one completed fixture applies to a
// team row. Exactly one of Won/Drawn/Lost is 1.
type ResultDelta struct {
	TeamID       string
	Points       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}
