package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var deep bool
	var noPrune bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the library and update the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				if deep {
					cfg.Scan.DeepVerify = true
				}
				if noPrune {
					cfg.Scan.PruneMissingFiles = false
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				summary, err := scanner.New(cfg, store, ctx.logger()).Scan(runCtx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scan %s completed: %s\n", summary.ScanID, summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&deep, "deep", false, "Also compute md5 and sha256 digests")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "Keep catalog entries for files missing from disk")
	return cmd
}
