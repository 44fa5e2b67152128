package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/config"
	"github.com/fivec-maps/catalog-import/internal/logger"
	"github.com/fivec-maps/catalog-import/internal/storage"
	"github.com/fivec-maps/catalog-import/internal/store"
)

const (
	ExitSuccess           = 0
	ExitError             = 1
	ExitSourceUnavailable = 2
)

// app holds the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	formatFlag string

	format OutputFormat
	cfg    *config.Config
}

// NewRootCmd creates the root command writing results to stdout and logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "catalog-import",
		Short: "Import Claremont Colleges course catalog pages",
		Long: `A CLI tool to extract course offerings from captured course-catalog HTML
for the five Claremont colleges, reconcile them into a database for a semester,
and report what changed between scrapes.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging and output")
	cmd.PersistentFlags().StringVar(&a.formatFlag, "format", "text", "Output format: text or json")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(
		a.newScrapeCmd(),
		a.newImportCmd(),
		a.newSeedCmd(),
		a.newCoursesCmd(),
		a.newExportCmd(),
	)
	return cmd
}

// setup validates the persistent flags, loads config and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(a.formatFlag)
	if err != nil {
		return err
	}
	a.format = format

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	logCfg := cfg.LoggerConfig()
	logCfg.Output = a.stderr
	if a.verbose {
		logCfg.Level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(logCfg))

	logger.Debug("config loaded", logger.Fields{
		"config":    a.configPath,
		"db_driver": cfg.Database.Driver,
		"data_dir":  cfg.DataDir,
		"env":       cfg.EnvOverrides(),
	})
	return nil
}

// openStore opens the configured database, creates the schema and seeds the colleges.
// It returns the number of colleges added.
func (a *app) openStore(ctx context.Context) (*store.DB, int, error) {
	dsn := a.cfg.Database.DSN
	if a.cfg.Database.Driver == store.DriverSQLite {
		expanded, err := storage.ExpandHome(dsn)
		if err != nil {
			return nil, 0, err
		}
		dsn = expanded
	}

	db, err := store.Open(ctx, a.cfg.Database.Driver, dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("opening database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, 0, err
	}
	n, err := db.SeedColleges(ctx, a.cfg.CatalogColleges())
	if err != nil {
		db.Close()
		return nil, 0, err
	}
	return db, n, nil
}

func (a *app) storage() (*storage.Storage, error) {
	s, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return s, nil
}

func (a *app) write(result textWriter) error {
	if err := WriteOutput(a.stdout, result, a.format, a.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		return ExitSourceUnavailable
	default:
		return ExitError
	}
}

// Run executes the CLI with args and returns the exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
