// Package cli is the operational surface of the effort service: cobra
// commands over the harvest, rollover, clinical-import and provisioning
// workflows. There is deliberately no HTTP surface here.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ucdavis/VIPER-sub005/config"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
	"github.com/ucdavis/VIPER-sub005/internal/service"
	"github.com/ucdavis/VIPER-sub005/pkg/database"
	applogger "github.com/ucdavis/VIPER-sub005/pkg/logger"
	"github.com/ucdavis/VIPER-sub005/pkg/redis"
)

// app holds the wired dependencies of one command invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    *service.Service
	rdb    *redis.Client // nil in degraded mode

	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootstrap wires config, logger, database (with migrations) and redis.
// Boot order follows the service startup sequence: config, logger, db,
// migrations, redis.
func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	sqlDB, err := db.DB()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		a.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// redis is optional: without it harvest runs unleased (and refuses when
	// harvest.require_lease is set)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable; harvest lease disabled", zap.Error(err))
		rdb = nil
	} else {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
	}
	a.rdb = rdb

	repo := repository.NewRepository(db)

	var lease service.LeaseStore
	if rdb != nil {
		lease = rdb
	}
	a.svc = service.NewService(cfg, repo, lease, logger)

	return a, nil
}

// printJSON writes a result to stdout for operators and scripts.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// NewRootCmd assembles the effortctl command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "effortctl",
		Short:         "Faculty effort term workflows: harvest, rollover, clinical import, provisioning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newHarvestCmd(&configPath),
		newRolloverCmd(&configPath),
		newImportClinicalCmd(&configPath),
		newProvisionCmd(&configPath),
		newTermCmd(&configPath),
	)

	return root
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
