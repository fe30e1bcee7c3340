// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/db47h/smlogic"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share circuit",
	Short: "Print the share string of a circuit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := readCircuit(args[0])
		if err != nil {
			return err
		}
		s, err := smlogic.EncodeShare(c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
		return err
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare string",
	Short: "Decode a share string into a circuit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		c, err := smlogic.DecodeShare(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		data, err := c.Serialize()
		if err != nil {
			return err
		}
		return writeOutput(out, data)
	},
}

func init() {
	rootCmd.AddCommand(shareCmd, unshareCmd)
	unshareCmd.Flags().StringP("out", "o", "", "output file (stdout if empty)")
}
