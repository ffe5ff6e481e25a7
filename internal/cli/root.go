// Package cli wires the signadmin commands: the HTTP admin server plus
// terminal front ends for validation, the day timeline, frame previews,
// and the calendar export.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"signadmin/internal/config"
	"signadmin/internal/editor"
	"signadmin/internal/font"
	"signadmin/internal/scene"
	"signadmin/internal/store"
)

// app bundles the collaborators every subcommand needs.
type app struct {
	cfg      *config.Config
	session  *editor.Session
	renderer *scene.Renderer
	loc      *time.Location
}

// newApp loads the config and builds the store, session, and renderer.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	st, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	session := editor.NewSession(st, editor.Paths{
		Events:      cfg.Paths.Events,
		Recurring:   cfg.Paths.Recurring,
		ScheduleDir: cfg.Paths.ScheduleDir,
		ImagesDir:   cfg.Paths.ImagesDir,
	})

	return &app{
		cfg:      cfg,
		session:  session,
		renderer: scene.NewRenderer(font.Matrix, session),
		loc:      loc,
	}, nil
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "github":
		if cfg.Store.Owner == "" || cfg.Store.Repo == "" {
			return nil, fmt.Errorf("store backend github needs owner and repo")
		}
		token, err := cfg.Token()
		if err != nil {
			return nil, fmt.Errorf("read token file: %w", err)
		}
		return store.NewGitHub(cfg.Store.Owner, cfg.Store.Repo, cfg.Store.Branch, token), nil
	case "local":
		return store.NewLocal(cfg.Store.Dir), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// NewRootCommand creates the top-level Cobra command hosting all
// subcommands. The config is loaded lazily so `signadmin --help` works
// without one.
func NewRootCommand(ctx context.Context) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "signadmin",
		Short:         "Admin console for the LED matrix sign.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to config file")

	loadApp := func() (*app, error) { return newApp(configPath) }

	cmd.AddCommand(
		newServeCommand(ctx, loadApp),
		newValidateCommand(ctx, loadApp),
		newTimelineCommand(ctx, loadApp),
		newPreviewCommand(ctx, loadApp),
		newWatchCommand(ctx, loadApp),
		newExportCommand(ctx, loadApp),
	)

	return cmd
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/signadmin/config.yaml"
	}
	return "signadmin.yaml"
}

// Main executes the root command and exits nonzero on error.
func Main(ctx context.Context) {
	if err := NewRootCommand(ctx).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
