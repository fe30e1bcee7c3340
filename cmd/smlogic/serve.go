// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/db47h/smlogic/internal/metrics"
	"github.com/db47h/smlogic/internal/server"
	"github.com/db47h/smlogic/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [circuit]",
	Short: "Serve a circuit over HTTP",
	Long:  `Hosts a circuit and exposes it as a JSON API over HTTP, along with Prometheus metrics.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
			cfg.Listen = addr
		}
		load, _ := cmd.Flags().GetString("load")
		run, _ := cmd.Flags().GetBool("run")

		s, err := cfg.Store.Open(logger)
		if err != nil {
			return err
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		r := runner.New(circuitArg(args),
			runner.WithInterval(cfg.Interval),
			runner.WithLogger(logger),
			runner.WithMetrics(metrics.New(reg)))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if load != "" {
			if err = r.Load(ctx, s, load); err != nil {
				logger.Warn("starting with the current circuit", "name", load, "error", err)
			}
		}
		if run {
			r.Start()
		}

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           server.NewHandler(r, s, reg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", srv.Addr)
			errc <- srv.ListenAndServe()
		}()
		go r.Run(ctx)

		select {
		case err = <-errc:
			return err
		case <-ctx.Done():
			logger.Info("shutting down")
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = srv.Shutdown(sctx); err != nil {
			logger.Warn("graceful shutdown failed", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "listen address (defaults to the configured one)")
	serveCmd.Flags().String("load", "", "load the named circuit from the store")
	serveCmd.Flags().Bool("run", false, "start running right away")
}
