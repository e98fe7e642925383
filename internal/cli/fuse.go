package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/garden/internal/adapters/cli"
	"github.com/example/garden/internal/ports/primary"
	"github.com/example/garden/internal/wire"
)

// consoleLines is the shared input stream while the console runs. Fusion
// confirmations read from it so they never race the console for a line.
var consoleLines <-chan string

func fuseCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "fuse <plot|name> <plot|name>...",
		Short: "Fuse plants into a new one",
		Long: `Fuse two or more plants. Arguments are garden plot numbers or
plant names; names are found in the garden first, then the storage shed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm primary.ConfirmFunc
			if yes {
				confirm = func(context.Context, primary.FusionPreview) (bool, error) { return true, nil }
			} else {
				lines := consoleLines
				if lines == nil {
					lines = cliadapter.ReadLines(cmd.InOrStdin())
				}
				confirm = cliadapter.PromptConfirm(lines, cmd.OutOrStdout())
			}
			return wire.FusionAdapterWithOutput(cmd.OutOrStdout()).Fuse(NewContext(), GetActorID(), args, confirm)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func almanacCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "almanac",
		Aliases: []string{"alm"},
		Short:   "Browse fusion recipes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "available [plant]",
		Short: "List fusions your owned plants can make",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AlmanacAdapterWithOutput(cmd.OutOrStdout()).Available(NewContext(), GetActorID(), strings.Join(args, " "))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "discover <plant>",
		Short: "List undiscovered fusions that use a plant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AlmanacAdapterWithOutput(cmd.OutOrStdout()).Discover(NewContext(), GetActorID(), strings.Join(args, " "))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "discovered [plant]",
		Short: "List fusions you have discovered",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AlmanacAdapterWithOutput(cmd.OutOrStdout()).Discovered(NewContext(), GetActorID(), strings.Join(args, " "))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "info <fusion>",
		Short: "Show the recipe and value of a discovered fusion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AlmanacAdapterWithOutput(cmd.OutOrStdout()).Info(NewContext(), GetActorID(), strings.Join(args, " "))
		},
	})
	return cmd
}

func buyCmd(short string, buy func(cmd *cobra.Command, itemID string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buy(cmd, strings.Join(args, " "))
		},
	}
}

func shopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Browse and buy from the shops",
	}

	rux := &cobra.Command{
		Use:   "rux [page]",
		Short: "Show Rux's fixed catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args)
			if err != nil {
				return err
			}
			return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).Rux(NewContext(), GetActorID(), page)
		},
	}
	rux.AddCommand(buyCmd("Buy from Rux", func(cmd *cobra.Command, item string) error {
		return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).BuyRux(NewContext(), GetActorID(), item)
	}))

	penny := &cobra.Command{
		Use:   "penny",
		Short: "Show Penny's rotating stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).Penny(NewContext())
		},
	}
	penny.AddCommand(buyCmd("Buy from Penny", func(cmd *cobra.Command, item string) error {
		return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).BuyPenny(NewContext(), GetActorID(), item)
	}))

	dave := &cobra.Command{
		Use:   "dave",
		Short: "Show Dave's daily plants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).Dave(NewContext())
		},
	}
	dave.AddCommand(buyCmd("Buy a plant from Dave", func(cmd *cobra.Command, item string) error {
		return wire.ShopAdapterWithOutput(cmd.OutOrStdout()).BuyDave(NewContext(), GetActorID(), item, globalChannelID)
	}))

	cmd.AddCommand(rux, penny, dave)
	return cmd
}

func tradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Exchange plants and items with other gardeners",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "offer <user> <sun> <plot>...",
		Short: "Offer plants from your garden for sun",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sun, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			plots, err := parsePlots(args[2:])
			if err != nil {
				return err
			}
			return wire.TradeAdapterWithOutput(cmd.OutOrStdout()).OfferPlants(NewContext(), GetActorID(), args[0], sun, plots)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "items <user> <sun> <item>...",
		Short: "Offer inventory items for sun",
		Long:  "Offer inventory items for sun. Separate item names with commas; repeat a name to offer more units.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sun, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			var items []string
			for _, item := range strings.Split(strings.Join(args[2:], " "), ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			if len(items) == 0 {
				return fmt.Errorf("specify at least one item")
			}
			return wire.TradeAdapterWithOutput(cmd.OutOrStdout()).OfferItems(NewContext(), GetActorID(), args[0], sun, items)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "accept <trade-id>",
		Short: "Accept a trade offered to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TradeAdapterWithOutput(cmd.OutOrStdout()).Accept(NewContext(), GetActorID(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "decline <trade-id>",
		Short: "Decline or withdraw a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TradeAdapterWithOutput(cmd.OutOrStdout()).Decline(NewContext(), GetActorID(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List open trades involving you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TradeAdapterWithOutput(cmd.OutOrStdout()).Pending(NewContext(), GetActorID())
		},
	})
	return cmd
}
