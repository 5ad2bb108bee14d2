package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/database"
)

var seed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Long: `Create or update the users, password reset, employee directory and
inventory tables. With --seed the employee directory is filled with the
reference rows when it is empty.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "Load the reference employee directory")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("migration complete")

	if seed {
		n, err := database.Seed(db)
		if err != nil {
			return err
		}
		log.Info("seed complete", zap.Int("employees", n))
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d employees\n", n)
	}
	return nil
}
