// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/db47h/smlogic/parts"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [part]",
	Short: "Create a circuit from the parts library",
	Long:  `Creates a circuit holding a library part with a switch on each of its inputs. Without arguments, lists the available parts.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range parts.Names() {
				p, _ := parts.Lookup(name)
				fmt.Fprintf(tw, "%s\t%s\t%s -> %s\n", p.Name, p.Doc,
					strings.Join(p.Inputs, " "), strings.Join(p.Outputs, " "))
			}
			return tw.Flush()
		}
		out, _ := cmd.Flags().GetString("out")
		c, pins, err := parts.New(args[0])
		if err != nil {
			return err
		}
		logger.Debug("part created", "part", args[0], "pins", len(pins))
		data, err := c.Serialize()
		if err != nil {
			return err
		}
		return writeOutput(out, data)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("out", "o", "", "output file (stdout if empty)")
}
