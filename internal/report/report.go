// Package report exports catalog contents and aggregates library statistics
// for the CLI and for downstream tooling.
package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"romshelf/internal/catalog"
)

// Row is the export projection of one catalog entry.
type Row struct {
	Path         string `json:"path"`
	System       string `json:"system"`
	Size         int64  `json:"size"`
	Status       string `json:"status"`
	CRC32        string `json:"crc32,omitempty"`
	SHA1         string `json:"sha1,omitempty"`
	MD5          string `json:"md5,omitempty"`
	SHA256       string `json:"sha256,omitempty"`
	MatchName    string `json:"match_name,omitempty"`
	Title        string `json:"title,omitempty"`
	Serial       string `json:"serial,omitempty"`
	Region       string `json:"region,omitempty"`
	QualityScore int    `json:"quality_score"`
	QualityTier  string `json:"quality_tier,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func rowFor(entry *catalog.Entry) Row {
	score, _ := strconv.Atoi(entry.Metadata["quality_score"])
	row := Row{
		Path:         entry.Path,
		System:       entry.System,
		Size:         entry.Size,
		Status:       string(entry.Status),
		CRC32:        entry.CRC32,
		SHA1:         entry.SHA1,
		MD5:          entry.MD5,
		SHA256:       entry.SHA256,
		MatchName:    entry.MatchName,
		Title:        entry.Metadata["title"],
		Serial:       entry.Metadata["serial"],
		Region:       entry.Metadata["region"],
		QualityScore: score,
		QualityTier:  entry.Metadata["quality_tier"],
	}
	if !entry.UpdatedAt.IsZero() {
		row.UpdatedAt = entry.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{
	"path", "system", "size", "status",
	"crc32", "sha1", "md5", "sha256",
	"match_name", "title", "serial", "region",
	"quality_score", "quality_tier", "updated_at",
}

// WriteCSV exports entries as CSV with a header row.
func WriteCSV(w io.Writer, entries []catalog.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range entries {
		row := rowFor(&entries[i])
		record := []string{
			row.Path, row.System, strconv.FormatInt(row.Size, 10), row.Status,
			row.CRC32, row.SHA1, row.MD5, row.SHA256,
			row.MatchName, row.Title, row.Serial, row.Region,
			strconv.Itoa(row.QualityScore), row.QualityTier, row.UpdatedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON exports entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []catalog.Entry) error {
	rows := make([]Row, 0, len(entries))
	for i := range entries {
		rows = append(rows, rowFor(&entries[i]))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Statistics summarizes the library state.
type Statistics struct {
	TotalEntries  int                    `json:"total_entries"`
	TotalBytes    int64                  `json:"total_bytes"`
	ByStatus      map[catalog.Status]int `json:"by_status"`
	BySystem      map[string]int         `json:"by_system"`
	VerifiedRatio float64                `json:"verified_ratio"`
}

// Build aggregates statistics over the whole catalog.
func Build(ctx context.Context, store *catalog.Store) (Statistics, error) {
	stats := Statistics{
		ByStatus: make(map[catalog.Status]int),
		BySystem: make(map[string]int),
	}
	entries, err := store.Query(ctx, catalog.Filter{})
	if err != nil {
		return stats, err
	}
	for i := range entries {
		stats.TotalEntries++
		stats.TotalBytes += entries[i].Size
		stats.ByStatus[entries[i].Status]++
		if entries[i].System != "" {
			stats.BySystem[entries[i].System]++
		}
	}
	if stats.TotalEntries > 0 {
		stats.VerifiedRatio = float64(stats.ByStatus[catalog.StatusVerified]) / float64(stats.TotalEntries)
	}
	return stats, nil
}
