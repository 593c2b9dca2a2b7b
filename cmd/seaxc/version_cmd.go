package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			if err := checkFormat(format); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if strings.ToLower(format) == "json" {
				data, err := getOutputJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintf(out, "seaxc %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	return cmd
}
