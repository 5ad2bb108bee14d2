package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mvc-is/portal/internal/config"
	"github.com/mvc-is/portal/internal/database"
	"github.com/mvc-is/portal/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "mvc-portal",
	Short: "MVC I.S. department portal",
	Long: `The MVC I.S. department portal: department dashboards behind a
role-based access router and the MIS inventory record store.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration, builds the logger and opens the database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	// 1. --- Main Database Connection ---
	db, err := database.OpenDB(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.Sync()
		return nil, nil, nil, fmt.Errorf("failed to connect to primary database: %w", err)
	}
	return cfg, log, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
