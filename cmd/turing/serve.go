package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Exposes validation, runs and transformations as a JSON API over HTTP.
Transformations are cached in Redis when cache.redis_addr is configured, in
memory otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := app.cfg.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		sm := runner.NewSignalManager(cmd.Context())
		defer sm.Stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		opts := []turing.Option{turing.WithRegisterer(reg)}
		if c := app.cfg.Cache; c.RedisAddr != "" {
			cache := redis.New(c.RedisAddr, c.RedisPassword, c.RedisDB, redis.WithTTL(c.TTL))
			defer cache.Close()
			if err := cache.Ping(sm.Context()); err != nil {
				return fmt.Errorf("redis cache unavailable: %w", err)
			}
			app.logger.Info("using redis transform cache", "address", c.RedisAddr, "ttl", c.TTL)
			opts = append(opts, turing.WithCache(cache))
		}
		engine := newEngine(opts...)

		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(app.logger),
			httpAdapter.WithGatherer(reg),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			app.logger.Info("turing server listening", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sm.Context().Done():
			app.logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				app.logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			app.logger.Info("turing server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
