// Package ctxutil carries request identity through context.Context.
// It imports nothing from the module so every layer can use it.
package ctxutil

import "context"

type key int

const (
	actorKey key = iota
	channelKey
)

// WithActorID returns a context naming the user who issued the command.
// Audit events record it next to the affected user.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorFromContext returns the acting user, or "" if none was set.
func ActorFromContext(ctx context.Context) string {
	return stringValue(ctx, actorKey)
}

// WithChannelID returns a context carrying the channel a command came from.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelKey, channelID)
}

// ChannelFromContext returns the originating channel, or "".
func ChannelFromContext(ctx context.Context) string {
	return stringValue(ctx, channelKey)
}

func stringValue(ctx context.Context, k key) string {
	v, _ := ctx.Value(k).(string)
	return v
}
