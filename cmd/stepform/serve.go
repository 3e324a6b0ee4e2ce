package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/stepform"
	httpAdapter "github.com/aretw0/stepform/pkg/adapters/http"
	"github.com/aretw0/stepform/pkg/adapters/memory"
	"github.com/aretw0/stepform/pkg/observability"
	"github.com/aretw0/stepform/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the form as a JSON API: one session per form instance, live
validation on every field, server-sent events per session and Prometheus
metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := loadForm(cfg)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(form.ID, reg)
		if err != nil {
			return err
		}

		eng, closeSink, err := newEngine(cmd.Context(), cfg, logger, metrics.Hooks())
		if err != nil {
			return err
		}
		defer closeSink()

		handler := httpAdapter.NewHandler(eng, session.NewManager(memory.NewStore(), session.WithLogger(logger)),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			httpAdapter.WithMaxInputSize(cfg.MaxInputSize),
			httpAdapter.WithVersion(stepform.Version),
		)

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting stepform server", "addr", srv.Addr, "form", form.ID, "sink", cfg.Sink)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
