package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/organizer"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var system string
	var apply bool

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename files to their canonical names",
		Long: "Rename lists files whose on-disk name differs from the canonical name " +
			"derived from reference matches and extracted metadata. Without --apply " +
			"only the plan is printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				org := organizer.New(cfg, store, ctx.logger())
				plans, err := org.PlanRenames(cmd.Context(), catalog.Filter{System: system})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(plans) == 0 {
					fmt.Fprintln(out, "All filenames already canonical")
					return nil
				}
				for _, plan := range plans {
					fmt.Fprintf(out, "%s -> %s\n", filepath.Base(plan.From), filepath.Base(plan.To))
				}
				if !apply {
					fmt.Fprintf(out, "%d pending renames (run with --apply to execute)\n", len(plans))
					return nil
				}
				applied, err := org.ApplyRenames(cmd.Context(), plans)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Renamed %d of %d files\n", applied, len(plans))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Limit renames to one system")
	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the renames instead of printing the plan")
	return cmd
}
