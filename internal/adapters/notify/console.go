// Package notify delivers game announcements to the operator console.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/example/garden/internal/ports/secondary"
)

// ErrUnknownChannel is returned when a channel cannot receive messages.
// Callers fall back to a direct message.
var ErrUnknownChannel = errors.New("unknown channel")

// ConsoleNotifier writes channel posts and direct messages to a writer.
type ConsoleNotifier struct {
	mu       sync.Mutex
	out      io.Writer
	channels map[string]struct{}

	channelColor *color.Color
	dmColor      *color.Color
}

// NewConsoleNotifier creates a notifier. With no channels every non-empty
// channel id is accepted; otherwise only the listed ones are.
func NewConsoleNotifier(out io.Writer, channels ...string) *ConsoleNotifier {
	n := &ConsoleNotifier{
		out:          out,
		channelColor: color.New(color.FgGreen),
		dmColor:      color.New(color.FgMagenta),
	}
	if len(channels) > 0 {
		n.channels = make(map[string]struct{}, len(channels))
		for _, ch := range channels {
			n.channels[ch] = struct{}{}
		}
	}
	return n
}

// NotifyChannel posts message to channelID, mentioning userID.
func (n *ConsoleNotifier) NotifyChannel(ctx context.Context, channelID, userID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if channelID == "" {
		return ErrUnknownChannel
	}
	if n.channels != nil {
		if _, ok := n.channels[channelID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownChannel, channelID)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "%s @%s %s\n", n.channelColor.Sprintf("[#%s]", channelID), userID, message)
	return err
}

// NotifyUser sends message to userID directly.
func (n *ConsoleNotifier) NotifyUser(ctx context.Context, userID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "%s %s\n", n.dmColor.Sprintf("[dm → %s]", userID), message)
	return err
}

// Ensure ConsoleNotifier implements the interface
var _ secondary.Notifier = (*ConsoleNotifier)(nil)
