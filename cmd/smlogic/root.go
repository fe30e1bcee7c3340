// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/internal/config"
	"github.com/db47h/smlogic/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "smlogic",
	Short:         "smlogic simulates tick based logic circuits",
	Long:          `smlogic runs, inspects and converts circuits of logic gates, timers and inputs that update in discrete ticks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.LogLevel = lvl
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		return nil
	},
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "smlogic:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// readInput reads the file at path, or stdin if path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrap(err, "read")
}

// writeOutput writes data to the file at path, or stdout if path is empty
// or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write")
}

func readCircuit(path string) (*smlogic.Circuit, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	c, err := smlogic.Deserialize(data)
	return c, errors.Wrap(err, path)
}

// circuitArg loads the circuit named on the command line, or the one from
// the configuration. Load failures are logged and yield an empty circuit.
func circuitArg(args []string) *smlogic.Circuit {
	path := cfg.Circuit
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return smlogic.New()
	}
	c, err := readCircuit(path)
	if err != nil {
		logger.Warn("starting with an empty circuit", "file", path, "error", err)
		return smlogic.New()
	}
	logger.Debug("circuit loaded", "file", path, "nodes", c.Len())
	return c
}
