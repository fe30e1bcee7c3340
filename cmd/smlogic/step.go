// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/internal/report"
	"github.com/db47h/smlogic/runner"
	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step circuit",
	Short: "Step a circuit a number of ticks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("n")
		trace, _ := cmd.Flags().GetBool("trace")
		out, _ := cmd.Flags().GetString("out")
		save, _ := cmd.Flags().GetString("save")

		c, err := readCircuit(args[0])
		if err != nil {
			return err
		}
		var opts []runner.Option
		if trace {
			tracer := report.NewTracer(os.Stdout)
			opts = append(opts, runner.WithTickHook(func(c *smlogic.Circuit) { tracer.Trace(c) }))
		}
		r := runner.New(c, append(opts, runner.WithLogger(logger))...)
		logger.Debug("stepping", "ticks", n, "nodes", c.Len())
		r.Step(n)

		if save != "" {
			s, err := cfg.Store.Open(logger)
			if err != nil {
				return err
			}
			if err = r.Save(context.Background(), s, save); err != nil {
				return err
			}
		}
		if out == "" {
			return nil
		}
		var data []byte
		r.Do(func(c *smlogic.Circuit) { data, err = c.Serialize() })
		if err != nil {
			return err
		}
		return writeOutput(out, data)
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)
	stepCmd.Flags().IntP("n", "n", 1, "number of ticks")
	stepCmd.Flags().Bool("trace", false, "print node states after every tick")
	stepCmd.Flags().StringP("out", "o", "", "write the resulting circuit to this file (- for stdout)")
	stepCmd.Flags().String("save", "", "save the resulting circuit to the store under this name")
}
