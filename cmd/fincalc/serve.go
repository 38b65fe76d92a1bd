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

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/server"
	"github.com/iwvelando/finance-calculator/internal/settings"
	"github.com/iwvelando/finance-calculator/internal/store"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	serverConfig string
	addr         string
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators and per-user settings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to HTTP server configuration file")
	flags.StringVar(&f.addr, "addr", "", "listen address override, e.g. :8080")
	flags.String("store-driver", "", "settings store override: sqlite, memory")
	flags.String("store-path", "", "sqlite database path override")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, f *serveFlags) error {
	srvCfg, err := server.LoadConfig(f.serverConfig)
	if err != nil {
		return err
	}
	if f.addr != "" {
		srvCfg.Address = f.addr
	}

	// Logging set in the server config replaces the application logging;
	// explicit flags still win.
	logger := a.logger
	if srvCfg.Logging != (config.LoggingConfig{}) {
		logging := srvCfg.Logging
		if cmd.Flags().Changed("log-level") {
			logging.Level = a.conf.Logging.Level
		}
		if cmd.Flags().Changed("log-format") {
			logging.Format = a.conf.Logging.Format
		}
		logger, err = initializeLogger(logging)
		if err != nil {
			return fmt.Errorf("failed to initialize server logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	st, err := store.Open(a.conf.Store.Driver, a.conf.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Warn("failed to close settings store",
				zap.String("op", "main.runServe"),
				zap.Error(closeErr),
			)
		}
	}()

	documents, err := st.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read settings store: %w", err)
	}

	svc := settings.NewService(logger, st)
	httpServer := &http.Server{
		Addr:              srvCfg.Address,
		Handler:           server.NewHandler(logger, svc, srvCfg.BodySizeBytes(), version),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main.runServe"),
			zap.String("address", srvCfg.Address),
			zap.String("store", a.conf.Store.Driver),
			zap.Int("documents", documents),
			zap.Int64("maxBodySize", srvCfg.BodySizeBytes()),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.runServe"))
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
