package roster

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// StaticSource serves roster strengths from a fixed map. It backs local
// development and tests where no squad service is running.
type StaticSource struct {
	mu        sync.RWMutex
	strengths map[string]float64
	fallback  float64
}

// NewStaticSource builds a source answering fallback for unknown
// participants. A fallback <= 0 makes unknown participants an error.
func NewStaticSource(fallback float64) *StaticSource {
	return &StaticSource{
		strengths: make(map[string]float64),
		fallback:  fallback,
	}
}

func (s *StaticSource) SetStrength(participantRef string, strength float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strengths[strings.TrimSpace(participantRef)] = strength
}

func (s *StaticSource) RosterStrength(_ context.Context, participantRef string) (float64, error) {
	participantRef = strings.TrimSpace(participantRef)
	if participantRef == "" {
		return 0, fmt.Errorf("participant ref is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if strength, ok := s.strengths[participantRef]; ok {
		return strength, nil
	}
	if s.fallback > 0 {
		return s.fallback, nil
	}

	return 0, fmt.Errorf("no roster for participant %s", participantRef)
}
