package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browse pages over HTTP",
		Long: `Serve index.php?p=browse_author|browse_year|browse_topic|browse_gmd|browse_coll_type,
the /browse/{page} aliases and /health.

The server stops on SIGINT or SIGTERM, waiting up to BROWSEBY_SHUTDOWN_TIMEOUT
for requests in flight.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides BROWSEBY_ADDR")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	c, err := a.container()
	if err != nil {
		return err
	}
	defer c.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := c.Ping(pingCtx); err != nil {
		// Cached pages can still be served while the database is down.
		a.logger.Warn().Err(err).Msg("catalog database unreachable")
	}
	cancel()

	server, err := c.Server()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("addr", a.cfg.Addr).
			Str("base_url", a.cfg.BaseURL).
			Str("cache_dir", a.cfg.CacheDir).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", a.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info().Dur("timeout", a.cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
