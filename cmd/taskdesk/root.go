package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdesk/taskdesk/internal/client"
	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/logger"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "taskdesk",
	Short: "Taskdesk task board",
	Long:  `A task board server backed by SQLite, with users, tags and replies.`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// Global flags
var (
	configPath string
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to taskdesk.toml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err, jsonOutput)
		os.Exit(exitCode(err))
	}
}

// cliError carries the exit code an error should terminate the process with.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	if errors.Is(err, client.ErrServerNotRunning) {
		return ExitServerNotRunning
	}
	if client.IsNotFound(err) {
		return ExitNotFound
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case domain.ErrCodeConflict:
			return ExitConflict
		case domain.ErrCodeValidationFailed, domain.ErrCodeInvalidReference:
			return ExitInvalidInput
		}
	}
	return ExitGeneralError
}

// loadConfig resolves the configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	home, _ := os.UserHomeDir()
	cwd, err := os.Getwd()
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("failed to get current directory: %w", err))
	}
	cfg, err := config.Resolve(config.ResolveOptions{Home: home, Dir: cwd, Path: configPath})
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	return cfg, nil
}

// app is what every command that touches the database needs.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *store.DB
	repos *sqlite.Repositories
}

// openApp loads configuration, installs the logger and opens the database.
// The caller closes db.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.Init(cfg.Logger())

	db, err := store.Open(cfg.Database.Path,
		store.WithLogger(log),
		store.WithStatementCacheSize(cfg.Database.StatementCacheSize))
	if err != nil {
		return nil, withExitCode(ExitDatabaseError, err)
	}

	reg, err := schema.Default()
	if err != nil {
		db.Close()
		return nil, err
	}
	repos, err := sqlite.New(db, reg)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db, repos: repos}, nil
}
