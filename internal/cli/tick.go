package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/garden/internal/wire"
)

// TickCmd returns the command that runs one growth cycle.
func TickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run one growth cycle now",
		Long:  "Advance every seedling once, restock due shops and save the state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := wire.GrowthService().Tick(NewContext())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cycle %d: %d gardens, %d seedlings advanced, %d matured", report.Cycle, report.Users, report.Advanced, report.Matured)
			if report.Stuck > 0 {
				fmt.Fprintf(out, ", %d stuck", report.Stuck)
			}
			fmt.Fprintln(out)
			if report.Refreshed.Penny {
				fmt.Fprintln(out, "Penny restocked")
			}
			if report.Refreshed.Dave {
				fmt.Fprintln(out, "Dave restocked")
			}
			return nil
		},
	}
}
