package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/garden/internal/adapters/cli"
	"github.com/example/garden/internal/wire"
)

// Console is an interactive session: each input line runs as a command.
type Console struct {
	lines   <-chan string
	out     io.Writer
	execute func(ctx context.Context, args []string) error
}

// NewConsole creates a console reading lines and running them through execute.
func NewConsole(lines <-chan string, out io.Writer, execute func(ctx context.Context, args []string) error) *Console {
	return &Console{lines: lines, out: out, execute: execute}
}

// Run processes lines until the input ends, "quit" is entered or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	prompt := color.New(color.FgGreen, color.Bold)
	for {
		prompt.Fprintf(c.out, "%s> ", GetActorID())

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok = <-c.lines:
			if !ok {
				fmt.Fprintln(c.out)
				return nil
			}
		}

		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintf(c.out, "✗ %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit":
			return nil
		case "user":
			if len(args) != 2 {
				fmt.Fprintln(c.out, "usage: user <id>")
				continue
			}
			globalActorID = args[1]
			fmt.Fprintf(c.out, "Now acting as %s\n", args[1])
			continue
		case "channel":
			if len(args) != 2 {
				fmt.Fprintln(c.out, "usage: channel <id>")
				continue
			}
			globalChannelID = args[1]
			fmt.Fprintf(c.out, "Notices go to #%s\n", args[1])
			continue
		}

		// --user and --channel on a single line do not change the session.
		actor, channel := globalActorID, globalChannelID
		err = c.execute(ctx, args)
		globalActorID, globalChannelID = actor, channel
		if err != nil {
			fmt.Fprintf(c.out, "✗ %v\n", err)
		}
	}
}

// splitLine splits a console line into words. Double quotes group words.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inWord  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case (r == ' ' || r == '\t') && !quoted:
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}

// executeLine runs args against a fresh command tree.
func executeLine(out io.Writer) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		tree := commandTree()
		tree.SetArgs(args)
		tree.SetOut(out)
		tree.SetErr(out)
		return tree.ExecuteContext(ctx)
	}
}

// ServeCmd returns the command that runs the maturation scheduler with an
// interactive console.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game loop with an interactive console",
		Long: `Start the maturation scheduler and read commands from stdin.

Console builtins:
  user <id>       act as another gardener
  channel <id>    send maturation notices to a channel
  quit            save and exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(NewContext(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := wire.Logger()
			scheduler := wire.Scheduler()
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			defer wire.Close()
			defer func() {
				scheduler.Stop()
				if err := wire.Flush(context.Background()); err != nil {
					logger.Error("failed to save state on exit", "error", err)
				}
			}()

			out := cmd.OutOrStdout()
			lines := cliadapter.ReadLines(cmd.InOrStdin())
			consoleLines = lines
			defer func() { consoleLines = nil }()
			return NewConsole(lines, out, executeLine(out)).Run(ctx)
		},
	}
}
