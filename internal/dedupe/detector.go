package dedupe

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/systems"
)

// Group kinds, in pass order.
const (
	KindExact       = "exact"
	KindCrossRegion = "cross_region"
	KindVersion     = "version"
	KindFuzzy       = "fuzzy"
)

// Group is one set of detected duplicates.
type Group struct {
	Kind         string
	Key          string
	Similarity   float64
	Entries      []catalog.Entry
	Keeper       string
	Reason       string
	SpaceSavings int64
}

// Detector runs the duplicate passes with configured thresholds.
type Detector struct {
	cfg        config.Duplicates
	regionRank map[string]int
}

// NewDetector builds a detector. The region priority list ranks keepers;
// earlier regions win.
func NewDetector(cfg config.Duplicates) *Detector {
	rank := make(map[string]int, len(cfg.RegionPriority))
	for i, region := range cfg.RegionPriority {
		rank[region] = len(cfg.RegionPriority) - i
	}
	return &Detector{cfg: cfg, regionRank: rank}
}

// FindAll runs every pass over the catalog entries. Exact groups come from
// the store's hash grouping; the name-based passes work off the entry list.
// Every pass stays within one system, so identically named files on
// different consoles never share a group.
func (d *Detector) FindAll(ctx context.Context, entries []catalog.Entry, exact []catalog.HashGroup) ([]Group, error) {
	var groups []Group

	for _, hashGroup := range exact {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		group := d.buildGroup(KindExact, hashGroup.Algorithm+":"+hashGroup.Digest, 1.0, hashGroup.Entries)
		groups = append(groups, group)
	}

	crossRegion, err := d.findCrossRegion(ctx, entries)
	if err != nil {
		return nil, err
	}
	groups = append(groups, crossRegion...)

	versions, err := d.findVersions(ctx, entries)
	if err != nil {
		return nil, err
	}
	groups = append(groups, versions...)

	fuzzy, err := d.findFuzzy(ctx, entries)
	if err != nil {
		return nil, err
	}
	groups = append(groups, fuzzy...)

	return groups, nil
}

// nameKey buckets the name-based passes per system as well as per normalized
// title.
type nameKey struct {
	system string
	name   string
}

func (d *Detector) findCrossRegion(ctx context.Context, entries []catalog.Entry) ([]Group, error) {
	byName := make(map[nameKey][]catalog.Entry)
	for _, entry := range entries {
		if name := Normalize(displayName(entry)); name != "" {
			key := nameKey{system: entry.System, name: name}
			byName[key] = append(byName[key], entry)
		}
	}

	var groups []Group
	for key, members := range byName {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(members) <= 1 || !d.similarSizes(members) {
			continue
		}
		regions := make(map[string]struct{})
		for _, entry := range members {
			if region := entryRegion(entry); region != "" {
				regions[region] = struct{}{}
			}
		}
		if len(regions) > 1 {
			groups = append(groups, d.buildGroup(KindCrossRegion, key.name, 0.95, members))
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (d *Detector) findVersions(ctx context.Context, entries []catalog.Entry) ([]Group, error) {
	byName := make(map[nameKey][]catalog.Entry)
	for _, entry := range entries {
		if name := Normalize(StripVersionTags(displayName(entry))); name != "" {
			key := nameKey{system: entry.System, name: name}
			byName[key] = append(byName[key], entry)
		}
	}

	var groups []Group
	for key, members := range byName {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(members) <= 1 {
			continue
		}
		// An untagged release counts as its own revision so a base dump
		// groups with its Rev 1 replacement.
		versions := make(map[string]struct{})
		for _, entry := range members {
			versions[entryVersion(entry)] = struct{}{}
		}
		if len(versions) > 1 {
			groups = append(groups, d.buildGroup(KindVersion, key.name, 0.90, members))
		}
	}
	sortGroups(groups)
	return groups, nil
}

// findFuzzy compares every pair of normalized names. Cancellation is checked
// per comparison since the pass is quadratic over the catalog.
func (d *Detector) findFuzzy(ctx context.Context, entries []catalog.Entry) ([]Group, error) {
	type named struct {
		name  string
		entry catalog.Entry
	}
	normalized := make([]named, 0, len(entries))
	for _, entry := range entries {
		if name := Normalize(displayName(entry)); name != "" {
			normalized = append(normalized, named{name: name, entry: entry})
		}
	}

	var groups []Group
	claimed := make(map[string]struct{})
	for i, first := range normalized {
		if _, done := claimed[first.entry.Path]; done {
			continue
		}
		matches := []catalog.Entry{first.entry}
		for _, second := range normalized[i+1:] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, done := claimed[second.entry.Path]; done {
				continue
			}
			if first.entry.System != second.entry.System {
				continue
			}
			if first.name == second.name {
				// Identical names belong to the exact or cross-region passes.
				continue
			}
			if maxPossibleSimilarity(len(first.name), len(second.name)) < d.cfg.FuzzyThreshold {
				continue
			}
			if Similarity(first.name, second.name) < d.cfg.FuzzyThreshold {
				continue
			}
			if !d.similarSizes([]catalog.Entry{first.entry, second.entry}) {
				continue
			}
			matches = append(matches, second.entry)
			claimed[second.entry.Path] = struct{}{}
		}
		if len(matches) > 1 {
			claimed[first.entry.Path] = struct{}{}
			groups = append(groups, d.buildGroup(KindFuzzy, first.name, d.cfg.FuzzyThreshold, matches))
		}
	}
	return groups, nil
}

func (d *Detector) buildGroup(kind, key string, similarity float64, members []catalog.Entry) Group {
	group := Group{
		Kind:       kind,
		Key:        key,
		Similarity: similarity,
		Entries:    members,
	}
	keeper := d.selectKeeper(members)
	group.Keeper = keeper.Path
	group.Reason = d.keeperReason(keeper, members)
	for _, entry := range members {
		if entry.Path != keeper.Path {
			group.SpaceSavings += entry.Size
		}
	}
	return group
}

// selectKeeper scores each member: verification dominates, then region
// preference, then revision recency, then a small size bonus. Ties go to the
// larger file, then the lexically smaller path.
func (d *Detector) selectKeeper(members []catalog.Entry) catalog.Entry {
	best := members[0]
	bestScore := d.keeperScore(best)
	for _, entry := range members[1:] {
		score := d.keeperScore(entry)
		switch {
		case score > bestScore:
			best, bestScore = entry, score
		case score == bestScore && entry.Size > best.Size:
			best = entry
		case score == bestScore && entry.Size == best.Size && entry.Path < best.Path:
			best = entry
		}
	}
	return best
}

func (d *Detector) keeperScore(entry catalog.Entry) float64 {
	var score float64
	if entry.Status == catalog.StatusVerified {
		score += 100
	}
	if rank, ok := d.regionRank[entryRegion(entry)]; ok {
		score += float64(rank) * 10
	}
	if recency := versionRecency(entryVersion(entry)); recency > 0 {
		score += recency
	}
	sizeBonus := float64(entry.Size) / (100 * 1024 * 1024)
	if sizeBonus > 10 {
		sizeBonus = 10
	}
	score += sizeBonus
	return score
}

func (d *Detector) keeperReason(keeper catalog.Entry, members []catalog.Entry) string {
	var reasons []string
	if keeper.Status == catalog.StatusVerified {
		reasons = append(reasons, "verified against reference database")
	}
	if region := entryRegion(keeper); region != "" {
		if _, ok := d.regionRank[region]; ok {
			reasons = append(reasons, "preferred region ("+region+")")
		}
	}
	if version := entryVersion(keeper); version != "" {
		reasons = append(reasons, "newest revision ("+version+")")
	}
	largest := true
	for _, entry := range members {
		if entry.Size > keeper.Size {
			largest = false
			break
		}
	}
	if largest && len(members) > 1 {
		reasons = append(reasons, "largest file")
	}
	if len(reasons) == 0 {
		return "manual review needed"
	}
	return strings.Join(reasons, ", ")
}

func (d *Detector) similarSizes(members []catalog.Entry) bool {
	if len(members) < 2 {
		return true
	}
	minSize, maxSize := members[0].Size, members[0].Size
	for _, entry := range members[1:] {
		if entry.Size < minSize {
			minSize = entry.Size
		}
		if entry.Size > maxSize {
			maxSize = entry.Size
		}
	}
	if maxSize == 0 {
		return true
	}
	return float64(maxSize-minSize)/float64(maxSize) <= d.cfg.SizeTolerance
}

var versionNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)*)`)

// versionRecency converts a version tag to a bounded score so "Rev 2" beats
// "Rev 1" and "v1.2" beats "v1.1".
func versionRecency(version string) float64 {
	m := versionNumberRe.FindString(version)
	if m == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.SplitN(m, ".", 3)[0]+versionFraction(m), 64)
	if err != nil {
		return 0
	}
	score := value * 5
	if score > 50 {
		score = 50
	}
	return score
}

func versionFraction(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return ""
	}
	return "." + parts[1]
}

func displayName(entry catalog.Entry) string {
	if entry.MatchName != "" {
		return entry.MatchName
	}
	return filepath.Base(entry.Path)
}

func entryRegion(entry catalog.Entry) string {
	if region := entry.Metadata[systems.MetaRegion]; region != "" {
		return region
	}
	return systems.ParseFilenameTags(entry.Path).Region()
}

func entryVersion(entry catalog.Entry) string {
	if version := entry.Metadata[systems.MetaVersion]; version != "" {
		return version
	}
	return systems.ParseFilenameTags(entry.Path).Version()
}

func sortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key != groups[j].Key {
			return groups[i].Key < groups[j].Key
		}
		return groups[i].Keeper < groups[j].Keeper
	})
}

// Statistics summarizes detected duplication.
type Statistics struct {
	TotalGroups int
	WastedBytes int64
	ByKind      map[string]int
}

// Summarize aggregates groups into statistics for reporting.
func Summarize(groups []Group) Statistics {
	stats := Statistics{ByKind: make(map[string]int)}
	for _, group := range groups {
		stats.TotalGroups++
		stats.WastedBytes += group.SpaceSavings
		stats.ByKind[group.Kind]++
	}
	return stats
}

// FormatSavings renders a byte count for human output.
func FormatSavings(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
