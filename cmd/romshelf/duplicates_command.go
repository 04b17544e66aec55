package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/dedupe"
)

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var system string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "duplicates",
		Aliases: []string{"dupes"},
		Short:   "Detect duplicate entries across the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				entries, err := store.Query(cmd.Context(), catalog.Filter{System: system})
				if err != nil {
					return err
				}
				exact, err := store.DuplicateGroups(cmd.Context(), system)
				if err != nil {
					return err
				}

				detector := dedupe.NewDetector(cfg.Duplicates)
				groups, err := detector.FindAll(cmd.Context(), entries, exact)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(groups)
				}
				if len(groups) == 0 {
					fmt.Fprintln(out, "No duplicates found")
					return nil
				}

				for _, group := range groups {
					fmt.Fprintf(out, "%s group (%s):\n", group.Kind, group.Key)
					for _, entry := range group.Entries {
						marker := "  "
						if entry.Path == group.Keeper {
							marker = "* "
						}
						fmt.Fprintf(out, "  %s%s (%s, %s)\n",
							marker, filepath.Base(entry.Path), entry.Status, dedupe.FormatSavings(entry.Size))
					}
					fmt.Fprintf(out, "  keep: %s (%s)\n\n", filepath.Base(group.Keeper), group.Reason)
				}

				stats := dedupe.Summarize(groups)
				fmt.Fprintf(out, "%d groups, %s reclaimable\n",
					stats.TotalGroups, dedupe.FormatSavings(stats.WastedBytes))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Limit detection to one system")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit duplicate groups as JSON")
	return cmd
}
