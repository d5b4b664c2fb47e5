package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/postpage"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var skipPrerender bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve post pages over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}

			app, err := postpage.New(cfg, postpage.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = app.Stop() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipPrerender {
				if _, err := app.Prerender(ctx); err != nil {
					logger.Error("prerender failed, pages will be generated on request", "error", err)
				}
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           app.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", cfg.Server.Addr, "base_path", cfg.Pages.BasePath, "dev", cfg.Dev)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&skipPrerender, "skip-prerender", false, "Do not generate the listed pages before serving")

	return cmd
}
