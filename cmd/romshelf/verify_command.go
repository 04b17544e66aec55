package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/hashing"
	"romshelf/internal/refdb"
)

// newVerifyCommand re-checks cataloged digests against the reference
// databases without rehashing files. Useful after dropping new DAT releases
// into the DAT directory.
func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-verify cataloged digests against reference databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				entries, err := store.Query(cmd.Context(), catalog.Filter{System: system})
				if err != nil {
					return err
				}

				indexes := make(map[string]*refdb.Index)
				var verified, mismatched, unknown, updated, skipped int
				for i := range entries {
					entry := &entries[i]
					if entry.Status == catalog.StatusQuarantined || entry.Status == catalog.StatusCorrupt {
						skipped++
						continue
					}
					if entry.SHA1 == "" && entry.MD5 == "" && entry.CRC32 == "" {
						skipped++
						continue
					}
					idx, ok := indexes[entry.System]
					if !ok {
						idx, err = refdb.LoadForSystem(cfg.Paths.DatDir, entry.System)
						if err != nil {
							return fmt.Errorf("load reference for %s: %w", entry.System, err)
						}
						indexes[entry.System] = idx
					}

					digests := map[string]string{
						hashing.AlgCRC32:  entry.CRC32,
						hashing.AlgSHA1:   entry.SHA1,
						hashing.AlgMD5:    entry.MD5,
						hashing.AlgSHA256: entry.SHA256,
					}
					match := idx.Lookup(digests, entry.Size)

					status := catalog.StatusUnknown
					switch match.Outcome {
					case refdb.OutcomeVerified:
						status = catalog.StatusVerified
						verified++
					case refdb.OutcomeMismatch:
						status = catalog.StatusMismatch
						mismatched++
					default:
						unknown++
					}
					if status == entry.Status && match.GameName == entry.MatchName {
						continue
					}
					fields := map[string]any{
						"status":     string(status),
						"match_name": match.GameName,
					}
					if err := store.UpdateFields(cmd.Context(), entry.Path, fields); err != nil {
						return err
					}
					updated++
				}

				fmt.Fprintf(cmd.OutOrStdout(),
					"Verified %d, mismatched %d, unknown %d (%d updated, %d skipped)\n",
					verified, mismatched, unknown, updated, skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Limit verification to one system")
	return cmd
}
