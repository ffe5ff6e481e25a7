package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	appLog "signadmin/internal/log"
	"signadmin/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(ctx context.Context, loadApp func() (*app, error)) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin console HTTP server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if listen != "" {
				a.cfg.Listen = listen
			}
			return runServe(ctx, a)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	server := web.NewServer(a.cfg, a.session, a.renderer, a.loc)

	// Warm the preview so /preview.png has a frame before the first tick.
	if err := server.RefreshPreview(ctx); err != nil {
		appLog.Warn("initial preview render failed", "reason", err)
	}

	sched := cron.New()
	if _, err := sched.AddFunc(a.cfg.RefreshCron, func() {
		if err := server.RefreshPreview(ctx); err != nil {
			appLog.Error("scheduled preview render failed", err)
		}
	}); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", a.cfg.RefreshCron, err)
	}
	sched.Start()
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:    a.cfg.Listen,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("admin console listening",
			"listen", a.cfg.Listen,
			"timezone", a.cfg.Timezone,
			"store", a.cfg.Store.Backend,
			"refresh", a.cfg.RefreshCron,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
