// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/internal/report"
	"github.com/db47h/smlogic/runner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [circuit]",
	Short: "Run a circuit continuously",
	Long:  `Runs a circuit headless at the configured tick interval, for a given number of ticks or until interrupted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticks, _ := cmd.Flags().GetUint("ticks")
		trace, _ := cmd.Flags().GetBool("trace")
		interval, _ := cmd.Flags().GetDuration("interval")
		load, _ := cmd.Flags().GetString("load")
		save, _ := cmd.Flags().GetString("save")
		if interval <= 0 {
			interval = cfg.Interval
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		tracer := report.NewTracer(os.Stdout)
		var done uint
		hook := func(c *smlogic.Circuit) {
			if trace {
				if err := tracer.Trace(c); err != nil {
					logger.Warn("trace", "error", err)
				}
			}
			if done++; ticks > 0 && done >= ticks {
				c.SetRunning(false)
				cancel()
			}
		}
		r := runner.New(circuitArg(args),
			runner.WithInterval(interval),
			runner.WithLogger(logger),
			runner.WithTickHook(hook))

		s, err := cfg.Store.Open(logger)
		if err != nil {
			return err
		}
		if load != "" {
			if err = r.Load(ctx, s, load); err != nil {
				logger.Warn("starting with the current circuit", "name", load, "error", err)
			}
		}

		r.Start()
		logger.Info("running", "interval", interval, "ticks", ticks)
		if err = r.Run(ctx); err != nil && errors.Cause(err) != context.Canceled {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stopped at tick %d\n", r.Ticks())
		if save != "" {
			return r.Save(context.Background(), s, save)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Uint("ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	runCmd.Flags().Bool("trace", false, "print node states after every tick")
	runCmd.Flags().Duration("interval", 0, "tick interval (defaults to the configured one)")
	runCmd.Flags().String("load", "", "load the named circuit from the store")
	runCmd.Flags().String("save", "", "save the circuit to the store under this name when done")
}
