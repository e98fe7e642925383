package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/garden/internal/wire"
)

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profile [user]",
		Aliases: []string{"garden", "g"},
		Short:   "Show a garden, storage shed and inventory",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := GetActorID()
			if len(args) == 1 {
				userID = args[0]
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Profile(NewContext(), userID)
		},
	}
}

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim the daily stipend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Daily(NewContext(), GetActorID())
		},
	}
}

func plantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plant <plot>...",
		Short: "Plant seedlings in empty plots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plots, err := parsePlots(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Plant(NewContext(), GetActorID(), globalChannelID, plots)
		},
	}
}

func sellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sell <plot>...",
		Short: "Sell mature plants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plots, err := parsePlots(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Sell(NewContext(), GetActorID(), plots)
		},
	}
}

func shovelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shovel <plot>...",
		Short: "Dig up seedlings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plots, err := parsePlots(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Shovel(NewContext(), GetActorID(), plots)
		},
	}
}

func reorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <plot>...",
		Short: "Rearrange unlocked plots",
		Long:  "List every unlocked plot once. Position i receives what was in the i-th plot listed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parsePlots(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Reorder(NewContext(), GetActorID(), order)
		},
	}
}

func storeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store <plot>...",
		Short: "Move plants into the storage shed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plots, err := parsePlots(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Store(NewContext(), GetActorID(), plots)
		},
	}
}

func unstoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unstore <slot>...",
		Short: "Move plants from the storage shed back into the garden",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := parsePlots(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Unstore(NewContext(), GetActorID(), slots)
		},
	}
}

func backgroundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "background",
		Aliases: []string{"bg"},
		Short:   "List unlocked backgrounds",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Backgrounds(NewContext(), GetActorID())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <background>",
		Short: "Activate an unlocked background",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).SetBackground(NewContext(), GetActorID(), strings.Join(args, " "))
		},
	})
	return cmd
}

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "leaderboard [page]",
		Aliases: []string{"lb"},
		Short:   "Rank gardeners by balance",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args)
			if err != nil {
				return err
			}
			return wire.GardenAdapterWithOutput(cmd.OutOrStdout()).Leaderboard(NewContext(), GetActorID(), page)
		},
	}
}
