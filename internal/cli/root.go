package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/garden/internal/wire"
)

// GameCmds returns the player-facing commands, freshly constructed so
// flag state never leaks between invocations.
func GameCmds() []*cobra.Command {
	return []*cobra.Command{
		profileCmd(),
		dailyCmd(),
		plantCmd(),
		sellCmd(),
		shovelCmd(),
		reorderCmd(),
		storeCmd(),
		unstoreCmd(),
		backgroundCmd(),
		leaderboardCmd(),
		fuseCmd(),
		almanacCmd(),
		shopCmd(),
		tradeCmd(),
	}
}

// commandTree builds the tree the console executes lines against.
func commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "garden",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindIdentityFlags(root)
	root.AddCommand(GameCmds()...)
	root.AddCommand(AdminCmd(), TickCmd())
	return root
}

// bindIdentityFlags adds --user and --channel. Values are applied only when
// given, so a console session keeps its identity between lines.
func bindIdentityFlags(cmd *cobra.Command) {
	var user, channel string
	cmd.PersistentFlags().StringVarP(&user, "user", "u", "", "Act as this user (default $USER)")
	cmd.PersistentFlags().StringVar(&channel, "channel", "", "Channel for maturation notices")

	prev := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if c.Flags().Changed("user") {
			globalActorID = user
		}
		if c.Flags().Changed("channel") {
			globalChannelID = channel
		}
		if prev != nil {
			return prev(c, args)
		}
		return nil
	}
}

// ConfigureRoot adds the global flags and every command to the root command.
func ConfigureRoot(root *cobra.Command) {
	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $GARDEN_CONFIG or ~/.garden/garden.yaml)")
	root.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if c.Flags().Changed("config") {
			wire.SetConfigPath(configPath)
		}
		return nil
	}
	bindIdentityFlags(root)

	root.AddCommand(GameCmds()...)
	root.AddCommand(AdminCmd())
	root.AddCommand(TickCmd())
	root.AddCommand(ServeCmd())
	root.AddCommand(DevCmd())
}
