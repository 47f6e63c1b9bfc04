package season

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// FirstID is the identifier materialized when no season exists yet.
const FirstID = "S1"

// Season scopes all teams and fixtures of one league cycle. Seasons are
// never mutated in place: advancing creates a new row with a successor id.
type Season struct {
	ID        string
	CreatedAt time.Time
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("season id is required")
	}

	return nil
}

// NextID returns the deterministic successor identifier by incrementing the
// trailing integer: "S1" -> "S2", "season-09" -> "season-10". Identifiers
// without a trailing integer get "2" appended so succession stays total.
func NextID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return FirstID
	}

	cut := len(trimmed)
	for cut > 0 && unicode.IsDigit(rune(trimmed[cut-1])) {
		cut--
	}
	if cut == len(trimmed) {
		return trimmed + "2"
	}

	number, err := strconv.Atoi(trimmed[cut:])
	if err != nil {
		return trimmed + "2"
	}

	return trimmed[:cut] + strconv.Itoa(number+1)
}
