package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/dedupe"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var system string
	var statusFlag string
	var limit int
	var offset int
	var fullPaths bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				filter := catalog.Filter{System: system, Limit: limit, Offset: offset}
				if statusFlag != "" {
					status, ok := catalog.ParseStatus(statusFlag)
					if !ok {
						return fmt.Errorf("unknown status %q", statusFlag)
					}
					filter.Status = status
				}
				entries, err := store.Query(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No entries match")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for i := range entries {
					entry := &entries[i]
					name := entry.Path
					if !fullPaths {
						name = filepath.Base(entry.Path)
					}
					rows = append(rows, []string{
						name,
						entry.System,
						string(entry.Status),
						entry.Metadata["quality_tier"],
						dedupe.FormatSavings(entry.Size),
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{title: "Name"},
					{title: "System"},
					{title: "Status"},
					{title: "Quality"},
					{title: "Size", align: alignRight},
				}, rows))
				fmt.Fprintf(out, "%d entries\n", len(entries))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Filter by system identifier")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status ("+statusNames()+")")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to list (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")
	cmd.Flags().BoolVar(&fullPaths, "full-paths", false, "Show full paths instead of filenames")
	return cmd
}

func statusNames() string {
	names := []string{
		string(catalog.StatusUnknown),
		string(catalog.StatusVerified),
		string(catalog.StatusMismatch),
		string(catalog.StatusCorrupt),
		string(catalog.StatusQuarantined),
	}
	return strings.ToLower(strings.Join(names, ", "))
}
