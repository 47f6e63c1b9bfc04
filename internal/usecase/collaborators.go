package usecase

import "context"

// EconomyLedger is the external budget/currency collaborator. The engine
// never owns balances; it only posts credits and debits. Reason tags embed
// the fixture's stable ref so the ledger can de-duplicate retried postings.
type EconomyLedger interface {
	CreditParticipant(ctx context.Context, participantRef string, amount int64, reasonTag string) error
	DebitParticipant(ctx context.Context, participantRef string, amount int64, reasonTag string) error
}

// RosterSource resolves a human participant's current squad into a single
// aggregate strength rating (mean of active roster ratings, 0..100 scale).
type RosterSource interface {
	RosterStrength(ctx context.Context, participantRef string) (float64, error)
}
