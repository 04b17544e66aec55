package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var path string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent catalog actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				actions, err := store.RecentActions(cmd.Context(), path, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(actions)
				}
				if len(actions) == 0 {
					fmt.Fprintln(out, "No recorded actions")
					return nil
				}
				rows := make([][]string, 0, len(actions))
				for _, action := range actions {
					rows = append(rows, []string{
						action.Timestamp.Local().Format(time.DateTime),
						string(action.Action),
						filepath.Base(action.Path),
						action.Detail,
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{title: "When"},
					{title: "Action"},
					{title: "File"},
					{title: "Detail"},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Limit history to one file path")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit actions as JSON")
	return cmd
}
