package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vector76/todo/internal/config"
	"github.com/vector76/todo/internal/logging"
	"github.com/vector76/todo/internal/store"
)

// app carries the state shared by every subcommand: resolved configuration,
// the logger and the one store opened per process.
type app struct {
	configFlag   string
	dataFileFlag string
	logLevelFlag string

	configPath string
	cfg        *config.Config
	log        zerolog.Logger
	closeLog   func()
	store      *store.Store
}

// setup resolves configuration and builds the logger. It runs once per
// process from the root command's PersistentPreRunE.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg != nil {
		return nil
	}

	dataDir, err := config.DefaultDir()
	if err != nil {
		return err
	}

	// Config path: flag > env (or .env) > ~/.todo/config.yaml
	a.configPath = a.configFlag
	if a.configPath == "" {
		a.configPath = config.Getenv(config.EnvConfig)
	}
	if a.configPath == "" {
		a.configPath = config.DefaultConfigPath(dataDir)
	}

	cfg, err := config.Load(a.configPath, dataDir)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(config.Getenv); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if a.dataFileFlag != "" {
		cfg.DataFile = a.dataFileFlag
	}
	if a.logLevelFlag != "" {
		cfg.LogLevel = a.logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	a.cfg = cfg
	a.log = l
	a.closeLog = closer
	a.log.Debug().
		Str("config", a.configPath).
		Str("data_file", cfg.DataFile).
		Msg("configuration resolved")
	return nil
}

// Store opens the data file on first use.
func (a *app) Store() *store.Store {
	if a.store == nil {
		a.store = store.Open(a.cfg.DataFile, store.WithLogger(logging.Component(a.log, "store")))
	}
	return a.store
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}
