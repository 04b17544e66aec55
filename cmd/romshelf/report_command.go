package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/dedupe"
	"romshelf/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Library statistics and exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				stats, err := report.Build(cmd.Context(), store)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Entries:  %d (%s)\n", stats.TotalEntries, dedupe.FormatSavings(stats.TotalBytes))
				fmt.Fprintf(out, "Verified: %.1f%%\n", stats.VerifiedRatio*100)

				statuses := make([]string, 0, len(stats.ByStatus))
				for status := range stats.ByStatus {
					statuses = append(statuses, string(status))
				}
				sort.Strings(statuses)
				rows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					rows = append(rows, []string{status, strconv.Itoa(stats.ByStatus[catalog.Status(status)])})
				}
				fmt.Fprintln(out, renderTable([]column{{title: "Status"}, {title: "Count", align: alignRight}}, rows))

				systems := make([]string, 0, len(stats.BySystem))
				for system := range stats.BySystem {
					systems = append(systems, system)
				}
				sort.Strings(systems)
				rows = rows[:0]
				for _, system := range systems {
					rows = append(rows, []string{system, strconv.Itoa(stats.BySystem[system])})
				}
				fmt.Fprintln(out, renderTable([]column{{title: "System"}, {title: "Count", align: alignRight}}, rows))
				return nil
			})
		},
	}

	cmd.AddCommand(newReportExportCommand(ctx))
	return cmd
}

func newReportExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var output string
	var system string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				entries, err := store.Query(cmd.Context(), catalog.Filter{System: system})
				if err != nil {
					return err
				}

				writer := cmd.OutOrStdout()
				if output != "" {
					file, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer file.Close()
					writer = file
				}

				switch format {
				case "csv":
					err = report.WriteCSV(writer, entries)
				case "json":
					err = report.WriteJSON(writer, entries)
				default:
					return fmt.Errorf("unknown export format %q (use csv or json)", format)
				}
				if err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&system, "system", "", "Limit export to one system")
	return cmd
}
