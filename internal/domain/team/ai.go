package team

import (
	"fmt"
	"hash/fnv"
)

var aiNamePrefixes = []string{
	"Real", "Atletico", "Sporting", "Dynamo", "Union", "Inter",
	"Rapid", "Olympic", "Borussia", "Athletic", "Locomotive", "Viktoria",
}

var aiNameSuffixes = []string{
	"Rovers", "Wanderers", "Albion", "City", "Town", "County",
	"Harbour", "Forest", "Vale", "Park", "Bridge", "Heath",
}

// GenerateAI builds an AI-controlled club for a division slot. Name and
// rating are derived from the (season, division, slot) key so regenerating
// a season's filler clubs is reproducible.
func GenerateAI(seasonID string, division, slot int, ratingMin, ratingMax float64) Team {
	key := fmt.Sprintf("%s/%d/%d", seasonID, division, slot)
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()

	prefix := aiNamePrefixes[sum%uint64(len(aiNamePrefixes))]
	suffix := aiNameSuffixes[(sum/uint64(len(aiNamePrefixes)))%uint64(len(aiNameSuffixes))]

	rating := ratingMin
	if ratingMax > ratingMin {
		span := ratingMax - ratingMin
		rating = ratingMin + float64(sum%1000)/999*span
	}

	return Team{
		SeasonID: seasonID,
		Division: division,
		Name:     fmt.Sprintf("%s %s", prefix, suffix),
		Rating:   rating,
	}
}
