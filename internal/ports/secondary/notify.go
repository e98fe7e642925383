package secondary

import "context"

// Notifier defines the secondary port for delivering messages to users.
type Notifier interface {
	// NotifyChannel posts a message addressed to userID in a channel.
	NotifyChannel(ctx context.Context, channelID, userID, message string) error

	// NotifyUser sends a direct message to userID.
	NotifyUser(ctx context.Context, userID, message string) error
}
