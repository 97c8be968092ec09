package commands

import (
	"github.com/spf13/cobra"

	"github.com/northstarhq/northstar/modules"
)

// NewUtilityCommands creates the admin commands (migrate, seed, recompute-kpis).
func NewUtilityCommands() []*cobra.Command {
	return []*cobra.Command{
		newMigrateCmd(),
		newSeedCmd(),
		newRecomputeKpisCmd(),
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Migrate(modules.BuiltInModules...)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with a demo tenant",
		Long:  `Creates a demo principal, account, organization, team and business unit so the planning surface has data to work with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return SeedDatabase(modules.BuiltInModules...)
		},
	}
}

func newRecomputeKpisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-kpis",
		Short: "Rebuild the cached aggregate of every KPI from its ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RecomputeKpis(modules.BuiltInModules...)
		},
	}
}
