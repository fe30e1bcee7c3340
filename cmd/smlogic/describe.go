// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/db47h/smlogic/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var describeCmd = &cobra.Command{
	Use:   "describe circuit",
	Short: "List the nodes of a circuit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		raw, _ := cmd.Flags().GetBool("raw")
		c, err := readCircuit(args[0])
		if err != nil {
			return err
		}
		md := report.Markdown(filepath.Base(args[0]), c)

		fd := int(os.Stdout.Fd())
		if raw || !term.IsTerminal(fd) {
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		width := 100
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
		out, err := report.Render(md, style, width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().String("style", "", "glamour style (dark, light, notty...); picked from the terminal if empty")
	describeCmd.Flags().Bool("raw", false, "print markdown without rendering")
}
