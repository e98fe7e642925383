// Package cli provides the cobra command surface of the garden game.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/garden/internal/ctxutil"
)

// globalActorID stores the acting user for the current invocation.
// Set from the --user flag, or by the console's "user" command.
var globalActorID string

// globalChannelID stores the channel maturation notices go to.
var globalChannelID string

// SetActor sets the acting user and channel.
func SetActor(userID, channelID string) {
	globalActorID = userID
	globalChannelID = channelID
}

// GetActorID returns the acting user, defaulting to $USER.
func GetActorID() string {
	if globalActorID != "" {
		return globalActorID
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "gardener"
}

// NewContext creates a context.Background() with the acting user and channel
// embedded. CLI commands should use this instead of context.Background().
func NewContext() gocontext.Context {
	ctx := ctxutil.WithActorID(gocontext.Background(), GetActorID())
	if globalChannelID != "" {
		ctx = ctxutil.WithChannelID(ctx, globalChannelID)
	}
	return ctx
}

// parsePlots converts 1-indexed plot arguments. Commas and spaces both
// separate numbers, so "1,2 3" gives [1 2 3].
func parsePlots(args []string) ([]int, error) {
	var plots []int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("'%s' is not a plot number", field)
			}
			plots = append(plots, n)
		}
	}
	if len(plots) == 0 {
		return nil, fmt.Errorf("specify at least one plot number")
	}
	return plots, nil
}

// parseAmount parses a currency amount, accepting thousands separators.
func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a number", s)
	}
	return n, nil
}

// parsePage reads an optional trailing page argument.
func parsePage(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page '%s'", args[0])
	}
	return n, nil
}
