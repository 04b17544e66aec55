package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"romshelf/internal/deps"
)

func newToolsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "tools",
		Short:       "Show availability of external conversion tools",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, status := range deps.CheckBinaries(deps.Defaults()) {
				kind := statusOK
				message := status.Command
				if !status.Available {
					kind = statusWarn
					if !status.Optional {
						kind = statusError
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
				if status.Description != "" {
					fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "", status.Description)
				}
			}
			return nil
		},
	}
}
