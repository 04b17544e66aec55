package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/organizer"
)

func newQuarantineCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "quarantine",
		Short: "Move corrupt files into the quarantine directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				out := cmd.OutOrStdout()
				if !apply {
					entries, err := store.Query(cmd.Context(), catalog.Filter{Status: catalog.StatusCorrupt})
					if err != nil {
						return err
					}
					if len(entries) == 0 {
						fmt.Fprintln(out, "No corrupt entries")
						return nil
					}
					for i := range entries {
						fmt.Fprintf(out, "%s (%s)\n", filepath.Base(entries[i].Path), entries[i].System)
					}
					fmt.Fprintf(out, "%d corrupt files (run with --apply to quarantine)\n", len(entries))
					return nil
				}

				org := organizer.New(cfg, store, ctx.logger())
				moved, err := org.QuarantineCorrupt(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Quarantined %d files into %s\n", moved, cfg.Paths.QuarantineDir)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Move the files instead of listing them")
	return cmd
}
