package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/garden/internal/cli"
	"github.com/example/garden/internal/version"
	"github.com/example/garden/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "garden",
		Short:   "Garden - a plant growing and fusion game",
		Version: version.String(),
		Long: `Garden is a multiplayer gardening game. Plant seedlings, wait for them
to mature into plants, fuse plants into rarer ones and trade with other gardeners.

Run "garden serve" for the game loop and an interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.ConfigureRoot(rootCmd)

	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
