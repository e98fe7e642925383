package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/garden/internal/wire"
)

// DevCmd returns the development helpers.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load sample gardeners into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.SeedFixtures(NewContext()); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Seeded sample gardeners")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Show the database schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := wire.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (%s)\n", v, wire.Config().Database)
			return nil
		},
	})
	return cmd
}
