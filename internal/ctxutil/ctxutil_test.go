package ctxutil

import (
	"context"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithChannelID(WithActorID(context.Background(), "alice"), "garden-chat")

	if got := ActorFromContext(ctx); got != "alice" {
		t.Errorf("ActorFromContext() = %q, want alice", got)
	}
	if got := ChannelFromContext(ctx); got != "garden-chat" {
		t.Errorf("ChannelFromContext() = %q, want garden-chat", got)
	}
}

func TestIdentityMissing(t *testing.T) {
	ctx := context.Background()
	if ActorFromContext(ctx) != "" || ChannelFromContext(ctx) != "" {
		t.Error("expected empty identity on a bare context")
	}
}

func TestKeysDoNotCollide(t *testing.T) {
	ctx := WithActorID(context.Background(), "alice")
	if got := ChannelFromContext(ctx); got != "" {
		t.Errorf("channel leaked actor value: %q", got)
	}
}
