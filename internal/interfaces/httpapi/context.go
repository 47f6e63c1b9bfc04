package httpapi

import "context"

type contextKey string

const participantContextKey contextKey = "participant_ref"

func withParticipant(ctx context.Context, participantRef string) context.Context {
	return context.WithValue(ctx, participantContextKey, participantRef)
}

func participantFromContext(ctx context.Context) (string, bool) {
	ref, ok := ctx.Value(participantContextKey).(string)
	return ref, ok && ref != ""
}
