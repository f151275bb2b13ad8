package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/repositories"
	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/desertthunder/vinyl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	ownsDB     bool
	source     services.CollectionSource
	schema     *shared.SchemaManager
	albums     *repositories.AlbumRepository
	history    *repositories.HistoryRepository
	sync       *tasks.CollectionSync
	journal    *tasks.Journal
}

// RunnerOpts contains configuration options for creating a Runner.
//
// When DB is nil the database is opened from the loaded config before a command runs.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
	Source     services.CollectionSource
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		source:     opts.Source,
	}
	if opts.DB != nil {
		r.wire(opts.DB)
	}
	return r
}

// wire builds the repositories and services that sit on top of db.
func (r *Runner) wire(db *sql.DB) {
	if r.source == nil {
		r.source = services.NewDiscogsService(r.config.Discogs)
	}

	r.db = db
	r.schema = shared.NewSchemaManager(db, r.logger)
	r.albums = repositories.NewAlbumRepository(db)
	r.history = repositories.NewHistoryRepository(db)
	r.journal = tasks.NewJournal(r.albums, r.history)
	r.sync = tasks.NewCollectionSync(r.schema, r.albums, r.source, tasks.SyncOptionsFromConfig(r.config), r.logger)
}

// open loads the config named by --config, opens the database and ensures the schema.
//
// A missing config file falls back to the embedded defaults.
func (r *Runner) open(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return ctx, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.ownsDB = true
		r.wire(db)
	}

	if err := r.schema.EnsureSchema(ctx); err != nil {
		r.logger.Warn("schema not ready", "error", err)
	}
	return ctx, nil
}

// Close releases the database when the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the runner's logger, e.g. to keep logs off the TUI's screen.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.db != nil {
		r.schema = shared.NewSchemaManager(r.db, logger)
		r.sync = tasks.NewCollectionSync(r.schema, r.albums, r.source, tasks.SyncOptionsFromConfig(r.config), logger)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, importCommand, albumsCommand, listenCommand, noteCommand, historyCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// requireDB reports whether the storage layer has been wired.
func (r *Runner) requireDB() error {
	if r.db == nil {
		return fmt.Errorf("%w: database not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// parseAlbumID reads a positional album id argument.
func parseAlbumID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: album id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// exitCode maps command errors to process exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidSort), errors.Is(err, shared.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}
