package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/twsweeney/tunescope/internal/repositories"
	"github.com/twsweeney/tunescope/internal/services"
	"github.com/twsweeney/tunescope/internal/shared"
	"github.com/twsweeney/tunescope/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	db         *sql.DB
	repos      *repositories.Store
	engine     tasks.SyncEngine
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	DB         *sql.DB
	Engine     tasks.SyncEngine
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		db:         opts.DB,
		engine:     opts.Engine,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. to redirect output to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, syncCommand, reportCommand, triviaCommand, privacyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore opens the configured database on first use and returns the
// repository store bound to it.
func (r *Runner) openStore() (*repositories.Store, error) {
	if r.repos != nil {
		return r.repos, nil
	}
	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.db = db
	}
	r.repos = repositories.NewStore(r.db)
	return r.repos, nil
}

// syncEngine builds the sync engine on first use.
func (r *Runner) syncEngine() (tasks.SyncEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}
	if r.service == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized, run tunescope auth first", shared.ErrNotAuthenticated)
	}
	store, err := r.openStore()
	if err != nil {
		return nil, err
	}
	r.engine = tasks.NewPlaylistSyncer(r.service, store, r.logger, r.config.Sync.FeatureBatchSize, r.config.Sync.ArtistBatchSize)
	return r.engine, nil
}

// appUserID resolves the local account identifier: the id persisted by a
// previous auth or sync, falling back to the provider's profile endpoint.
func (r *Runner) appUserID(ctx context.Context) (string, error) {
	if id := r.config.Credentials.Spotify.UserID; id != "" {
		return id, nil
	}
	if r.service == nil {
		return "", fmt.Errorf("%w: no stored user id and no Spotify service, run tunescope auth first", shared.ErrNotAuthenticated)
	}
	user, err := r.service.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve current user: %w", err)
	}
	r.config.Credentials.Spotify.UserID = user.ID
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		r.logger.Warnf("failed to persist user id %v", err)
	}
	return user.ID, nil
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
