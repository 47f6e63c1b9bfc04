package economy

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Posting is one recorded ledger movement.
type Posting struct {
	ParticipantRef string
	Amount         int64
	ReasonTag      string
}

// MemoryLedger records postings in memory. It backs local development and
// tests, and enforces the same reason-tag idempotency the real ledger does.
type MemoryLedger struct {
	mu       sync.Mutex
	postings []Posting
	byTag    map[string]bool
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		byTag: make(map[string]bool),
	}
}

func (l *MemoryLedger) CreditParticipant(_ context.Context, participantRef string, amount int64, reasonTag string) error {
	return l.record(participantRef, amount, reasonTag)
}

func (l *MemoryLedger) DebitParticipant(_ context.Context, participantRef string, amount int64, reasonTag string) error {
	return l.record(participantRef, -amount, reasonTag)
}

func (l *MemoryLedger) record(participantRef string, amount int64, reasonTag string) error {
	participantRef = strings.TrimSpace(participantRef)
	reasonTag = strings.TrimSpace(reasonTag)
	if participantRef == "" {
		return fmt.Errorf("participant ref is required")
	}
	if reasonTag == "" {
		return fmt.Errorf("reason tag is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := participantRef + "|" + reasonTag
	if l.byTag[key] {
		return nil
	}
	l.byTag[key] = true
	l.postings = append(l.postings, Posting{
		ParticipantRef: participantRef,
		Amount:         amount,
		ReasonTag:      reasonTag,
	})

	return nil
}

// Postings returns a copy of everything recorded so far.
func (l *MemoryLedger) Postings() []Posting {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Posting, len(l.postings))
	copy(out, l.postings)
	return out
}

// Balance sums a participant's recorded postings.
func (l *MemoryLedger) Balance(participantRef string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total int64
	for _, posting := range l.postings {
		if posting.ParticipantRef == participantRef {
			total += posting.Amount
		}
	}
	return total
}
