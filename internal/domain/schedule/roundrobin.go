package schedule

import "sort"

// byeID is the synthetic opponent padded in for odd team counts. A pairing
// against it produces no fixture; the gameweek index still advances so the
// calendar stays symmetric.
const byeID = ""

// Pair is one scheduled pairing within a round.
type Pair struct {
	Home string
	Away string
}

// IsBye reports whether one side of the pairing is the synthetic bye slot.
func (p Pair) IsBye() bool {
	return p.Home == byeID || p.Away == byeID
}

// DoubleRoundRobin builds the full 2(N-1)-round calendar for one division
// using the classic circle method: one team stays fixed while the rest
// rotate around it, which guarantees each pairing occurs exactly once per
// cycle and no team appears twice in a round. The second cycle mirrors the
// first with home and away reversed.
//
// Rotation order is seeded from team ids ascending, so regeneration for the
// same team set reproduces the identical calendar.
func DoubleRoundRobin(teamIDs []string) [][]Pair {
	if len(teamIDs) < 2 {
		return nil
	}

	ids := append([]string(nil), teamIDs...)
	sort.Strings(ids)
	if len(ids)%2 == 1 {
		ids = append(ids, byeID)
	}
	firstCycle := cycle(ids)
	rounds := make([][]Pair, 0, 2*len(firstCycle))
	rounds = append(rounds, firstCycle...)
	for _, pairs := range firstCycle {
		mirrored := make([]Pair, 0, len(pairs))
		for _, p := range pairs {
			mirrored = append(mirrored, Pair{Home: p.Away, Away: p.Home})
		}
		rounds = append(rounds, mirrored)
	}

	return rounds
}

func cycle(ids []string) [][]Pair {
	n := len(ids)
	pivot := ids[0]
	rot := append([]string(nil), ids[1:]...)
	m := len(rot)

	rounds := make([][]Pair, 0, n-1)
	for round := 0; round < n-1; round++ {
		pairs := make([]Pair, 0, n/2)

		// Alternate the pivot's venue so home games spread evenly.
		if round%2 == 0 {
			pairs = append(pairs, Pair{Home: pivot, Away: rot[m-1]})
		} else {
			pairs = append(pairs, Pair{Home: rot[m-1], Away: pivot})
		}

		for i := 0; i < n/2-1; i++ {
			home, away := rot[i], rot[m-2-i]
			if i%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, Pair{Home: home, Away: away})
		}

		rounds = append(rounds, pairs)
		rot = append([]string{rot[m-1]}, rot[:m-1]...)
	}

	return rounds
}
