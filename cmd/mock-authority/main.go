// Command mock-authority serves a deterministic stand-in for the admissions
// authority, for local development and end-to-end tests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/rules"
	"tcubridge/internal/mockauthority"
	"tcubridge/internal/platform/config"
	"tcubridge/internal/platform/httpserver"
	"tcubridge/internal/platform/logger"
)

func main() {
	var configPath, institution string
	cmd := &cobra.Command{
		Use:          "mock-authority",
		Short:        "Serve a stand-in admissions authority",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, institution)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a .toml or .yaml config file")
	cmd.Flags().StringVar(&institution, "institution", "UDSM", "institution code reported for fresh admissions")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(configPath, institution string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	catalog, err := operations.Default(rules.Default())
	if err != nil {
		return err
	}

	opts := []mockauthority.Option{
		mockauthority.WithLogger(log),
		mockauthority.WithInstitution(institution),
	}
	if !cfg.Mock.SessionToken.IsZero() {
		opts = append(opts, mockauthority.WithSessionToken(cfg.Mock.SessionToken))
	}
	stub, err := mockauthority.New(catalog, opts...)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Mount("/", stub.Handler())

	srv := httpserver.New(cfg.Mock.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting mock authority", "addr", cfg.Mock.Addr, "operations", catalog.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("mock authority stopped")
	return nil
}
