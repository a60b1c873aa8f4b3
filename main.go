package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/config"
	"github.com/ekaya-inc/ekaya-mes/pkg/database"
	"github.com/ekaya-inc/ekaya-mes/pkg/logging"
	"github.com/ekaya-inc/ekaya-mes/pkg/repositories"
	"github.com/ekaya-inc/ekaya-mes/pkg/retry"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "ekaya-mes",
		Short: "Manufacturing execution dashboard server",
		Long: `ekaya-mes mirrors work orders, machines, operators and quality checks
from PostgreSQL and serves production KPIs, analytics exports and a
synthesized alert feed over HTTP.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE:  runMigrate,
	}

	kpisCmd = &cobra.Command{
		Use:   "kpis",
		Short: "Load the collections once and print KPIs",
		RunE:  runKPIs,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	kpisCmd.Flags().StringVar(&kpisRange, "range", "", "analytics range (7d, 30d, 90d, custom); empty prints the dashboard")
	kpisCmd.Flags().StringVar(&kpisStart, "start", "", "custom range start date (YYYY-MM-DD)")
	kpisCmd.Flags().StringVar(&kpisEnd, "end", "", "custom range end date (YYYY-MM-DD)")
	kpisCmd.Flags().StringVarP(&kpisFormat, "format", "f", "yaml", "output format (yaml or json)")

	rootCmd.AddCommand(serveCmd, migrateCmd, kpisCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs after startup.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}

// bootstrap loads configuration, builds the logger and connects to the
// database, retrying while Postgres is still coming up.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFile(configPath, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	connStr := cfg.Database.ConnectionString()
	logger.Info("Connecting to database",
		zap.String("database", logging.SanitizeConnectionString(connStr)),
		zap.Int32("max_connections", cfg.Database.MaxConnections))

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.String("error", logging.SanitizeError(err)))
	}
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            connStr,
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to connect to database: %s", logging.SanitizeError(err))
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

// migrate applies the SQL migrations over a database/sql handle.
func (a *app) migrate() error {
	sqlDB, err := database.OpenSQL(a.cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return database.RunMigrations(sqlDB, a.cfg.MigrationsPath, a.logger)
}

func (a *app) collections() *collections.Set {
	return collections.NewSet(collections.SourcesFromDB(
		repositories.NewWorkOrderRepository(a.db),
		repositories.NewMachineRepository(a.db),
		repositories.NewOperatorRepository(a.db),
		repositories.NewQualityCheckRepository(a.db),
	), a.logger)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	return a.migrate()
}
