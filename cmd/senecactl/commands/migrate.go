package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/senecapartners/seneca-cms-backend/database"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
)

// migrateCmd creates or updates every table and seeds the default site
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Create or update all tables and make sure the default site exists.

Examples:
  senecactl migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	sites, err := site.NewService(ctx, site.NewRepository(db), cfg.DefaultSiteDomain, cfg.DefaultSiteName)
	if err != nil {
		return err
	}
	def := sites.Default()
	fmt.Printf("✅ Migrations applied, default site #%d %s\n", def.ID, def.Domain)
	return nil
}
