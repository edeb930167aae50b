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

	"github.com/nikolayk812/storefront-demo/internal/web"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront pages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to :STOREFRONT_APP_PORT")

	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, a.cfg, a.logg)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	handler, err := web.NewRouter(web.Deps{
		Logger:   a.logg,
		Catalog:  a.catalog,
		Stores:   a.stores(st.repo),
		BaseSlot: a.cfg.Storage.Slot,
		Gatherer: a.registry,
		Ping:     st.ping,
	})
	if err != nil {
		return fmt.Errorf("web.NewRouter: %w", err)
	}

	if addr == "" {
		addr = ":" + a.cfg.App.Port
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logCtx := a.logg.WithFields(ctx, map[string]any{
		"env":    a.cfg.App.Env,
		"addr":   addr,
		"driver": a.cfg.Storage.Driver,
	})
	a.logg.Info(logCtx, "starting storefront server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logg.Info(logCtx, "shutting down storefront server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	return nil
}
