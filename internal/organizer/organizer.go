package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/fileutil"
	"romshelf/internal/logging"
)

// Organizer moves library files based on catalog state.
type Organizer struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
}

// New builds an organizer over an open store.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{cfg: cfg, store: store, logger: logging.WithComponent(logger, "organizer")}
}

// RenamePlan is one pending rename.
type RenamePlan struct {
	From string
	To   string
}

// PlanRenames lists entries whose on-disk name differs from their canonical
// name. Quarantined entries are left alone.
func (o *Organizer) PlanRenames(ctx context.Context, filter catalog.Filter) ([]RenamePlan, error) {
	entries, err := o.store.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	var plans []RenamePlan
	for i := range entries {
		entry := &entries[i]
		if entry.Status == catalog.StatusQuarantined {
			continue
		}
		canonical := CanonicalName(entry)
		if canonical == "" || canonical == filepath.Base(entry.Path) {
			continue
		}
		plans = append(plans, RenamePlan{
			From: entry.Path,
			To:   filepath.Join(filepath.Dir(entry.Path), canonical),
		})
	}
	return plans, nil
}

// ApplyRenames executes rename plans. A plan whose target already exists is
// skipped rather than clobbering another library file. Returns the number of
// renames applied.
func (o *Organizer) ApplyRenames(ctx context.Context, plans []RenamePlan) (int, error) {
	applied := 0
	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if _, err := os.Stat(plan.To); err == nil {
			o.logger.Warn("rename target exists, skipping",
				logging.String(logging.FieldPath, plan.From),
				logging.String("target", plan.To))
			continue
		}
		if err := o.applyRename(ctx, plan); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (o *Organizer) applyRename(ctx context.Context, plan RenamePlan) error {
	entry, err := o.store.Get(ctx, plan.From)
	if err != nil {
		return err
	}
	if err := fileutil.MoveFile(plan.From, plan.To); err != nil {
		return fmt.Errorf("rename %s: %w", plan.From, err)
	}
	if err := o.repath(ctx, entry, plan.To, entry.Status); err != nil {
		return err
	}
	if err := o.store.LogAction(ctx, plan.From, catalog.ActionRenamed, "renamed to "+plan.To); err != nil {
		return err
	}
	o.logger.Info("renamed",
		logging.String(logging.FieldPath, plan.From),
		logging.String("target", plan.To))
	return nil
}

// Quarantine moves one file into the quarantine directory and marks its entry
// QUARANTINED. Returns the quarantine path.
func (o *Organizer) Quarantine(ctx context.Context, path, reason string) (string, error) {
	entry, err := o.store.Get(ctx, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(o.cfg.Paths.QuarantineDir, 0o755); err != nil {
		return "", fmt.Errorf("create quarantine dir: %w", err)
	}
	target, err := fileutil.NextFreePath(o.cfg.Paths.QuarantineDir, filepath.Base(path))
	if err != nil {
		return "", err
	}
	if err := fileutil.MoveFile(path, target); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", path, err)
	}
	if err := o.repath(ctx, entry, target, catalog.StatusQuarantined); err != nil {
		return "", err
	}
	detail := "moved to " + target
	if reason != "" {
		detail += ": " + reason
	}
	if err := o.store.LogAction(ctx, path, catalog.ActionQuarantined, detail); err != nil {
		return "", err
	}
	o.logger.Info("quarantined",
		logging.String(logging.FieldPath, path),
		logging.String("target", target),
		logging.String("reason", reason))
	return target, nil
}

// QuarantineCorrupt moves every CORRUPT entry into quarantine. Returns the
// number of files moved.
func (o *Organizer) QuarantineCorrupt(ctx context.Context) (int, error) {
	entries, err := o.store.Query(ctx, catalog.Filter{Status: catalog.StatusCorrupt})
	if err != nil {
		return 0, err
	}
	moved := 0
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		tier := entries[i].Metadata["quality_tier"]
		reason := "corrupt"
		if tier != "" {
			reason = "quality tier " + tier
		}
		if _, err := o.Quarantine(ctx, entries[i].Path, reason); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// repath rewrites an entry under a new path. The path is the primary key, so
// this is a remove-and-insert pair rather than an update.
func (o *Organizer) repath(ctx context.Context, entry *catalog.Entry, newPath string, status catalog.Status) error {
	if _, err := o.store.Remove(ctx, entry.Path); err != nil {
		return err
	}
	moved := *entry
	moved.Path = newPath
	moved.Status = status
	return o.store.Upsert(ctx, &moved)
}
