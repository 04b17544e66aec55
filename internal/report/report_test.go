package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"romshelf/internal/catalog"
	"romshelf/internal/testsupport"
)

func sampleEntries() []catalog.Entry {
	return []catalog.Entry{
		{
			Path:      "/roms/Example Quest (USA).md",
			System:    "genesis",
			Size:      8192,
			Status:    catalog.StatusVerified,
			CRC32:     "cafebabe",
			SHA1:      "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			MatchName: "Example Quest (USA)",
			Metadata: map[string]string{
				"title":         "EXAMPLE QUEST",
				"region":        "USA",
				"quality_score": "100",
				"quality_tier":  "PERFECT",
			},
			UpdatedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		},
		{
			Path:   "/roms/mystery.bin",
			System: "genesis",
			Size:   42,
			Status: catalog.StatusUnknown,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleEntries()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[0][0] != "path" || records[0][12] != "quality_score" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	first := records[1]
	if first[0] != "/roms/Example Quest (USA).md" || first[3] != "VERIFIED" || first[12] != "100" {
		t.Fatalf("unexpected row: %v", first)
	}
	if first[14] != "2026-02-03T04:05:06Z" {
		t.Fatalf("updated_at = %q", first[14])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleEntries()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].MatchName != "Example Quest (USA)" || rows[0].QualityScore != 100 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[1].QualityTier != "" || rows[1].Status != "UNKNOWN" {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
}

func TestBuildStatistics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entries := []*catalog.Entry{
		{Path: "/roms/a.md", System: "genesis", Size: 100, Status: catalog.StatusVerified},
		{Path: "/roms/b.md", System: "genesis", Size: 200, Status: catalog.StatusUnknown},
		{Path: "/roms/c.sfc", System: "snes", Size: 300, Status: catalog.StatusVerified},
		{Path: "/roms/d.sfc", System: "snes", Size: 400, Status: catalog.StatusCorrupt},
	}
	for _, entry := range entries {
		if err := store.Upsert(ctx, entry); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	stats, err := Build(ctx, store)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.TotalEntries != 4 || stats.TotalBytes != 1000 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.ByStatus[catalog.StatusVerified] != 2 || stats.BySystem["snes"] != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.VerifiedRatio != 0.5 {
		t.Fatalf("verified ratio = %v", stats.VerifiedRatio)
	}
}
