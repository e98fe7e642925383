package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/garden/internal/ports/primary"
	"github.com/example/garden/internal/wire"
)

func intArg(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got '%s'", what, s)
	}
	return n, nil
}

// AdminCmd returns the operator command group.
func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance <user> <amount>",
		Short: "Set a balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).SetBalance(NewContext(), args[0], amount)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mastery <user> <sun|time> <level>",
		Short: "Set a mastery level",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := intArg(args[2], "level")
			if err != nil {
				return err
			}
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).SetMastery(NewContext(), args[0], args[1], level)
		},
	})

	var quantity int
	give := &cobra.Command{
		Use:   "give <user> <item>",
		Short: "Grant inventory items",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).AddItem(NewContext(), args[0], strings.Join(args[1:], " "), quantity)
		},
	}
	give.Flags().IntVarP(&quantity, "quantity", "q", 1, "Number of units")

	var takeQuantity int
	take := &cobra.Command{
		Use:   "take <user> <item>",
		Short: "Remove inventory items",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).RemoveItem(NewContext(), args[0], strings.Join(args[1:], " "), takeQuantity)
		},
	}
	take.Flags().IntVarP(&takeQuantity, "quantity", "q", 1, "Number of units")
	cmd.AddCommand(give, take)

	var custom bool
	var tier string
	addPlant := &cobra.Command{
		Use:   "plant <user> <plot> <plant>",
		Short: "Put a plant into a plot",
		Long: `Put a base plant or fusion into a plot, replacing what is there.
With --custom the plant name is free text and --tier is required.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := intArg(args[1], "plot")
			if err != nil {
				return err
			}
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).AddPlant(NewContext(), primary.AddPlantRequest{
				UserID: args[0],
				Slot:   slot,
				Query:  strings.Join(args[2:], " "),
				Custom: custom,
				Tier:   tier,
			})
		},
	}
	addPlant.Flags().BoolVar(&custom, "custom", false, "Create a plant outside the catalog")
	addPlant.Flags().StringVar(&tier, "tier", "", "Tier of a custom plant")
	cmd.AddCommand(addPlant)

	cmd.AddCommand(&cobra.Command{
		Use:   "unlock <user> <background>",
		Short: "Unlock a background",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).UnlockBackground(NewContext(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "growth <minutes>",
		Short: "Set how long seedlings take to mature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := intArg(args[0], "minutes")
			if err != nil {
				return err
			}
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).SetGrowthDuration(NewContext(), minutes)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "penny-interval <hours>",
		Short: "Set how often Penny restocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := intArg(args[0], "hours")
			if err != nil {
				return err
			}
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).SetPennyInterval(NewContext(), hours)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restock <item> <amount>",
		Short: "Add stock to a limited Rux item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := intArg(args[1], "amount")
			if err != nil {
				return err
			}
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).RestockLimited(NewContext(), args[0], amount)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "refresh <penny|dave>",
		Short:     "Regenerate a rotating shop now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"penny", "dave"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).Refresh(NewContext(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the whole game state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).DumpState(NewContext())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "Check catalog integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AdminAdapterWithOutput(cmd.OutOrStdout()).CatalogReport(NewContext())
		},
	})

	cmd.AddCommand(eventsCmd())
	return cmd
}

func eventsCmd() *cobra.Command {
	var filters primary.EventFilters
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LogAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), filters)
		},
	}
	cmd.Flags().StringVar(&filters.UserID, "user-id", "", "Only events for this user")
	cmd.Flags().StringVarP(&filters.Kind, "kind", "k", "", "Only events of this kind")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Maximum number of events")

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old audit events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LogAdapterWithOutput(cmd.OutOrStdout()).Prune(NewContext(), days)
		},
	}
	prune.Flags().IntVar(&days, "older-than", 30, "Delete events older than this many days")
	cmd.AddCommand(prune)
	return cmd
}
