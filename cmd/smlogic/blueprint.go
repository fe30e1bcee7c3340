// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/db47h/smlogic/blueprint"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export circuit",
	Short: "Convert a circuit to a game blueprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		c, err := readCircuit(args[0])
		if err != nil {
			return err
		}
		data, err := blueprint.ExportJSON(c)
		if err != nil {
			return err
		}
		return writeOutput(out, append(data, '\n'))
	},
}

var importCmd = &cobra.Command{
	Use:   "import blueprint",
	Short: "Convert a game blueprint to a circuit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		width, _ := cmd.Flags().GetFloat64("width")
		height, _ := cmd.Flags().GetFloat64("height")
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		c, err := blueprint.Import(data, width, height)
		if err != nil {
			return err
		}
		logger.Info("blueprint imported", "nodes", c.Len(), "links", len(c.Links()))
		if data, err = c.Serialize(); err != nil {
			return err
		}
		return writeOutput(out, data)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringP("out", "o", "", "output file (stdout if empty)")
	importCmd.Flags().StringP("out", "o", "", "output file (stdout if empty)")
	importCmd.Flags().Float64("width", 1200, "width of the imported layout")
	importCmd.Flags().Float64("height", 800, "height of the imported layout")
}
