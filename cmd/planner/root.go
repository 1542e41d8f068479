package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/onfuse/planner/internal/api"
	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
)

// app holds the wired services shared by all subcommands. It is populated
// by the root command's PersistentPreRunE and torn down afterwards.
type app struct {
	cfg   *model.AppConfig
	log   *logrus.Logger
	store *store.SQLiteStore
	api   *api.Service

	configPath string
	dbPath     string
	logLevel   string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "Timeline planning over configurable record types",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "Path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides configuration)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides configuration)")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Emit JSON instead of rendered output")

	cmd.AddCommand(
		newTimelineCmd(a),
		newMoveCmd(a),
		newConfigsCmd(a),
		newValidateCmd(a),
		newConflictsCmd(a),
		newWorkloadCmd(a),
		newBookCmd(a),
		newBulkAssignCmd(a),
		newRosterCmd(a),
		newSeedCmd(a),
	)
	return cmd
}

func (a *app) init(ctx context.Context) error {
	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	a.log = logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	a.log.SetLevel(level)

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	a.store = st

	if cfg.SeedOnStart {
		if err := store.Seed(ctx, st); err != nil {
			return fmt.Errorf("seeding sample data: %w", err)
		}
	}

	a.api = api.NewService(st, a.log)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
