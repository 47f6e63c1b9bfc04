package league

import (
	"fmt"
	"time"
)

// Rules are the league-shape constants: how many divisions exist, how many
// clubs each holds, and how teams and money move between seasons. They are
// configuration, defaulted conservatively, never derived from data.
type Rules struct {
	// DivisionCount is the number of tiers (1 = top flight).
	DivisionCount int
	// DivisionSize is the fixed club count per division. Round-robin
	// scheduling wants it even; odd sizes work via a bye round.
	DivisionSize int
	// PromotionCount is how many clubs swap between adjacent divisions at
	// season rollover.
	PromotionCount int
	// AIRatingMin/Max bound the static strength of generated AI clubs.
	AIRatingMin float64
	AIRatingMax float64
	// GameweekInterval spaces fixture dates; one gameweek per interval.
	GameweekInterval time.Duration
	// WinReward/DrawReward are the ledger credits for a human participant's
	// result, in the economy's smallest currency unit.
	WinReward  int64
	DrawReward int64
}

func DefaultRules() Rules {
	return Rules{
		DivisionCount:    2,
		DivisionSize:     8,
		PromotionCount:   2,
		AIRatingMin:      55,
		AIRatingMax:      75,
		GameweekInterval: 24 * time.Hour,
		WinReward:        250,
		DrawReward:       100,
	}
}

func (r Rules) Validate() error {
	if r.DivisionCount < 1 {
		return fmt.Errorf("division count must be >= 1")
	}
	if r.DivisionSize < 2 {
		return fmt.Errorf("division size must be >= 2")
	}
	if r.PromotionCount < 0 {
		return fmt.Errorf("promotion count must be >= 0")
	}
	if r.PromotionCount*2 > r.DivisionSize {
		return fmt.Errorf("promotion count %d too large for division size %d", r.PromotionCount, r.DivisionSize)
	}
	if r.AIRatingMin < 0 || r.AIRatingMax < r.AIRatingMin {
		return fmt.Errorf("ai rating bounds are invalid")
	}
	if r.GameweekInterval <= 0 {
		return fmt.Errorf("gameweek interval must be > 0")
	}
	if r.WinReward < 0 || r.DrawReward < 0 {
		return fmt.Errorf("rewards must be >= 0")
	}

	return nil
}
