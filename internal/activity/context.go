package activity

import (
	"context"

	"github.com/castellan-dev/castellan/internal/models"
)

type ctxKey int

const (
	actorKey ctxKey = iota
	suppressKey
	recordingKey
)

// WithActor returns a context carrying the acting user, set once per request
// by the auth middleware so nested save/delete hooks can stamp the actor on
// every activity row without parameter threading.
func WithActor(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

// ActorFrom returns the acting user carried by ctx, or nil
func ActorFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(actorKey).(*models.User)
	return user
}

// Suppress returns a context in which automatic interception is disabled.
// Use it around saves/deletes when the caller records a more descriptive
// entry itself, to avoid a duplicate generic "updated" row. The scope ends
// with the derived context, so it cannot leak across requests or survive
// an error path.
func Suppress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressKey, true)
}

func isSuppressed(ctx context.Context) bool {
	on, _ := ctx.Value(suppressKey).(bool)
	return on
}

// markRecording flags the context during an activity insert so the write can
// never be intercepted itself and cascade.
func markRecording(ctx context.Context) context.Context {
	return context.WithValue(ctx, recordingKey, true)
}

func isRecording(ctx context.Context) bool {
	on, _ := ctx.Value(recordingKey).(bool)
	return on
}
