package organizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"romshelf/internal/catalog"
	"romshelf/internal/logging"
	"romshelf/internal/testsupport"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Example Quest (USA)", "Example Quest (USA)"},
		{`Bad/Name: "Test"?`, "BadName Test"},
		{"  spaced   out  ", "spaced out"},
		{"tab\tand\nnewline", "tab and newline"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalName(t *testing.T) {
	cases := []struct {
		name  string
		entry catalog.Entry
		want  string
	}{
		{
			name: "verified match name wins",
			entry: catalog.Entry{
				Path:      "/roms/example_quest.md",
				MatchName: "Example Quest (USA)",
			},
			want: "Example Quest (USA).md",
		},
		{
			name: "serial appended when extracted",
			entry: catalog.Entry{
				Path:      "/roms/game.iso",
				MatchName: "Example Quest (USA)",
				Metadata:  map[string]string{"serial": "SLUS-12345"},
			},
			want: "Example Quest (USA) [SLUS-12345].iso",
		},
		{
			name: "title fallback without match",
			entry: catalog.Entry{
				Path:     "/roms/dump.sfc",
				Metadata: map[string]string{"title": "EXAMPLE QUEST"},
			},
			want: "EXAMPLE QUEST.sfc",
		},
		{
			name: "basename fallback without metadata",
			entry: catalog.Entry{
				Path: "/roms/mystery.bin",
			},
			want: "mystery.bin",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalName(&tc.entry); got != tc.want {
				t.Fatalf("CanonicalName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenameAppliesCanonicalNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := New(cfg, store, logging.NewNop())
	ctx := context.Background()

	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(cfg.Paths.LibraryDir, "example_quest_final2.md")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entry := &catalog.Entry{
		Path:      path,
		System:    "genesis",
		Size:      7,
		Status:    catalog.StatusVerified,
		MatchName: "Example Quest (USA)",
	}
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	plans, err := org.PlanRenames(ctx, catalog.Filter{})
	if err != nil {
		t.Fatalf("PlanRenames: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("plans = %+v", plans)
	}
	want := filepath.Join(cfg.Paths.LibraryDir, "Example Quest (USA).md")
	if plans[0].To != want {
		t.Fatalf("target = %q, want %q", plans[0].To, want)
	}

	applied, err := org.ApplyRenames(ctx, plans)
	if err != nil {
		t.Fatalf("ApplyRenames: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied = %d", applied)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("old file still present, err = %v", err)
	}

	if _, err := store.Get(ctx, path); err != catalog.ErrNotFound {
		t.Fatalf("old entry still present, err = %v", err)
	}
	moved, err := store.Get(ctx, want)
	if err != nil {
		t.Fatalf("Get new path: %v", err)
	}
	if moved.Status != catalog.StatusVerified || moved.MatchName != "Example Quest (USA)" {
		t.Fatalf("entry fields lost: %+v", moved)
	}

	actions, err := store.RecentActions(ctx, path, 10)
	if err != nil {
		t.Fatalf("RecentActions: %v", err)
	}
	if len(actions) == 0 || actions[0].Action != catalog.ActionRenamed {
		t.Fatalf("no RENAMED record: %+v", actions)
	}
}

func TestApplyRenamesSkipsExistingTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := New(cfg, store, logging.NewNop())
	ctx := context.Background()

	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	from := filepath.Join(cfg.Paths.LibraryDir, "dup.md")
	target := filepath.Join(cfg.Paths.LibraryDir, "Example Quest (USA).md")
	for _, p := range []string{from, target} {
		if err := os.WriteFile(p, []byte("payload"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := store.Upsert(ctx, &catalog.Entry{Path: from, MatchName: "Example Quest (USA)", Status: catalog.StatusVerified}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	applied, err := org.ApplyRenames(ctx, []RenamePlan{{From: from, To: target}})
	if err != nil {
		t.Fatalf("ApplyRenames: %v", err)
	}
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
	if _, err := os.Stat(from); err != nil {
		t.Fatalf("source file should be untouched: %v", err)
	}
}

func TestQuarantineMovesFileAndUpdatesStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := New(cfg, store, logging.NewNop())
	ctx := context.Background()

	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(cfg.Paths.LibraryDir, "broken.md")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Upsert(ctx, &catalog.Entry{Path: path, Status: catalog.StatusCorrupt}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	target, err := org.Quarantine(ctx, path, "failed header check")
	if err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	if filepath.Dir(target) != cfg.Paths.QuarantineDir {
		t.Fatalf("target %q not in quarantine dir", target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("quarantined file missing: %v", err)
	}

	entry, err := store.Get(ctx, target)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Status != catalog.StatusQuarantined {
		t.Fatalf("status = %s", entry.Status)
	}
}

func TestQuarantineCorrupt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := New(cfg, store, logging.NewNop())
	ctx := context.Background()

	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var corrupt []string
	for _, name := range []string{"a.md", "b.md"} {
		p := filepath.Join(cfg.Paths.LibraryDir, name)
		if err := os.WriteFile(p, []byte("junk"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := store.Upsert(ctx, &catalog.Entry{Path: p, Status: catalog.StatusCorrupt}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		corrupt = append(corrupt, p)
	}
	good := filepath.Join(cfg.Paths.LibraryDir, "good.md")
	if err := os.WriteFile(good, []byte("fine"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Upsert(ctx, &catalog.Entry{Path: good, Status: catalog.StatusVerified}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	moved, err := org.QuarantineCorrupt(ctx)
	if err != nil {
		t.Fatalf("QuarantineCorrupt: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d", moved)
	}
	for _, p := range corrupt {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s not moved, err = %v", p, err)
		}
	}
	if _, err := os.Stat(good); err != nil {
		t.Fatalf("verified file disturbed: %v", err)
	}
}
