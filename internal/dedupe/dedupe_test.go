package dedupe

import (
	"context"
	"testing"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
)

func testDetector() *Detector {
	return NewDetector(config.Default().Duplicates)
}

func entry(system, path string, size int64, status catalog.Status) catalog.Entry {
	return catalog.Entry{Path: path, System: system, Size: size, Status: status}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Super Mario World (USA).sfc", "super mario world sfc"},
		{"Pokémon Rouge (France)", "pokemon rouge"},
		{"Sonic   The   Hedgehog!!", "sonic the hedgehog"},
		{"[BIOS] Something {Europe}", "something"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripVersionTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Game (Rev 1)", "Game"},
		{"Game v1.2", "Game"},
		{"Game (v2.0) Extra", "Game   Extra"},
		{"Game", "Game"},
	}
	for _, tc := range cases {
		if got := StripVersionTags(tc.in); got != tc.want {
			t.Errorf("StripVersionTags(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("chrono trigger", "chrono trigger"); got != 1 {
		t.Fatalf("identical strings = %v, want 1", got)
	}
	if got := Similarity("chrono trigger", "chrono trigget"); got < 0.9 {
		t.Fatalf("one substitution = %v, want >= 0.9", got)
	}
	if got := Similarity("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint strings = %v, want 0", got)
	}
	if got := Similarity("", "abc"); got != 0 {
		t.Fatalf("empty side = %v, want 0", got)
	}
}

func TestMaxPossibleSimilarityBoundsSimilarity(t *testing.T) {
	pairs := [][2]string{
		{"a", "abcdefgh"},
		{"game", "game deluxe edition"},
		{"x", "x"},
	}
	for _, p := range pairs {
		bound := maxPossibleSimilarity(len(p[0]), len(p[1]))
		if got := Similarity(p[0], p[1]); got > bound+1e-9 {
			t.Errorf("Similarity(%q, %q) = %v exceeds bound %v", p[0], p[1], got, bound)
		}
	}
}

func TestExactGroupsFromHashGroups(t *testing.T) {
	a := entry("snes", "/roms/a.sfc", 1024, catalog.StatusVerified)
	b := entry("snes", "/roms/b.sfc", 1024, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), nil, []catalog.HashGroup{
		{Algorithm: "sha1", Digest: "deadbeef", Entries: []catalog.Entry{a, b}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Kind != KindExact || g.Similarity != 1.0 {
		t.Fatalf("group = %+v", g)
	}
	if g.Keeper != a.Path {
		t.Fatalf("keeper = %s, want verified entry", g.Keeper)
	}
	if g.SpaceSavings != b.Size {
		t.Fatalf("savings = %d, want %d", g.SpaceSavings, b.Size)
	}
}

func TestCrossRegionKeepsPreferredRegion(t *testing.T) {
	usa := entry("snes", "/roms/Chrono Trigger (USA).sfc", 4_194_304, catalog.StatusUnknown)
	japan := entry("snes", "/roms/Chrono Trigger (Japan).sfc", 4_194_304, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{japan, usa}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var group *Group
	for i := range groups {
		if groups[i].Kind == KindCrossRegion {
			group = &groups[i]
		}
	}
	if group == nil {
		t.Fatalf("no cross-region group in %+v", groups)
	}
	if group.Keeper != usa.Path {
		t.Fatalf("keeper = %s, want USA release", group.Keeper)
	}
	if group.SpaceSavings != japan.Size {
		t.Fatalf("savings = %d", group.SpaceSavings)
	}
}

func TestPassesStayWithinOneSystem(t *testing.T) {
	snes := entry("snes", "/roms/snes/Doom (USA).iso", 4_194_304, catalog.StatusUnknown)
	psx := entry("psx", "/roms/psx/Doom (Europe).iso", 4_194_304, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{snes, psx}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Fatalf("same title on different consoles must not group: %+v", groups)
	}
}

func TestGroupsNeverMixSystems(t *testing.T) {
	entries := []catalog.Entry{
		entry("snes", "/roms/snes/Quest (USA).sfc", 2048, catalog.StatusUnknown),
		entry("snes", "/roms/snes/Quest (Europe).sfc", 2048, catalog.StatusUnknown),
		entry("gba", "/roms/gba/Quest (USA).gba", 2048, catalog.StatusUnknown),
		entry("gba", "/roms/gba/Quest (Japan).gba", 2048, catalog.StatusUnknown),
	}
	groups, err := testDetector().FindAll(context.Background(), entries, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) == 0 {
		t.Fatal("expected per-system cross-region groups")
	}
	for _, g := range groups {
		for _, e := range g.Entries {
			if e.System != g.Entries[0].System {
				t.Fatalf("mixed systems in group %+v", g)
			}
		}
	}
}

func TestVerifiedBeatsRegionPreference(t *testing.T) {
	usa := entry("snes", "/roms/Game (USA).sfc", 1024, catalog.StatusUnknown)
	japan := entry("snes", "/roms/Game (Japan).sfc", 1024, catalog.StatusVerified)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{usa, japan}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range groups {
		if g.Kind == KindCrossRegion && g.Keeper != japan.Path {
			t.Fatalf("keeper = %s, want verified dump", g.Keeper)
		}
	}
}

func TestVersionGroupKeepsNewestRevision(t *testing.T) {
	rev0 := entry("gba", "/roms/Adventure (USA).gba", 8_388_608, catalog.StatusUnknown)
	rev2 := entry("gba", "/roms/Adventure (USA) (Rev 2).gba", 8_388_608, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{rev0, rev2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var group *Group
	for i := range groups {
		if groups[i].Kind == KindVersion {
			group = &groups[i]
		}
	}
	if group == nil {
		t.Fatalf("no version group in %+v", groups)
	}
	if group.Keeper != rev2.Path {
		t.Fatalf("keeper = %s, want Rev 2", group.Keeper)
	}
}

func TestFuzzyGroupsNearIdenticalNames(t *testing.T) {
	a := entry("snes", "/roms/Final Fantasy III.sfc", 3_145_728, catalog.StatusUnknown)
	b := entry("snes", "/roms/Final Fantasy 3.sfc", 3_145_728, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{a, b}, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, g := range groups {
		if g.Kind == KindFuzzy && len(g.Entries) == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fuzzy group, got %+v", groups)
	}
}

func TestFuzzyRejectsDivergentSizes(t *testing.T) {
	a := entry("snes", "/roms/Final Fantasy III.sfc", 3_145_728, catalog.StatusUnknown)
	b := entry("snes", "/roms/Final Fantasy 3.sfc", 1_048_576, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{a, b}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range groups {
		if g.Kind == KindFuzzy {
			t.Fatalf("unexpected fuzzy group: %+v", g)
		}
	}
}

func TestFuzzyRejectsDistinctTitles(t *testing.T) {
	a := entry("gba", "/roms/Metroid Fusion.gba", 8_388_608, catalog.StatusUnknown)
	b := entry("gba", "/roms/Golden Sun.gba", 8_388_608, catalog.StatusUnknown)
	groups, err := testDetector().FindAll(context.Background(), []catalog.Entry{a, b}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestFindAllHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries := []catalog.Entry{
		entry("snes", "/roms/a.sfc", 1024, catalog.StatusUnknown),
		entry("snes", "/roms/b.sfc", 1024, catalog.StatusUnknown),
	}
	if _, err := testDetector().FindAll(ctx, entries, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestGroupInvariants(t *testing.T) {
	entries := []catalog.Entry{
		entry("snes", "/roms/Zelda (USA).sfc", 2048, catalog.StatusVerified),
		entry("snes", "/roms/Zelda (Europe).sfc", 2048, catalog.StatusUnknown),
		entry("snes", "/roms/Zelda (USA) (Rev 1).sfc", 2048, catalog.StatusUnknown),
	}
	groups, err := testDetector().FindAll(context.Background(), entries, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range groups {
		keeperPresent := false
		var others int64
		for _, e := range g.Entries {
			if e.Path == g.Keeper {
				keeperPresent = true
			} else {
				others += e.Size
			}
		}
		if !keeperPresent {
			t.Fatalf("keeper %s not among entries of %+v", g.Keeper, g)
		}
		if g.SpaceSavings != others {
			t.Fatalf("savings = %d, want %d in %+v", g.SpaceSavings, others, g)
		}
		if g.Reason == "" {
			t.Fatalf("empty reason in %+v", g)
		}
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]Group{
		{Kind: KindExact, SpaceSavings: 100},
		{Kind: KindExact, SpaceSavings: 50},
		{Kind: KindFuzzy, SpaceSavings: 25},
	})
	if stats.TotalGroups != 3 || stats.WastedBytes != 175 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.ByKind[KindExact] != 2 || stats.ByKind[KindFuzzy] != 1 {
		t.Fatalf("by kind = %+v", stats.ByKind)
	}
}

func TestFormatSavings(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tc := range cases {
		if got := FormatSavings(tc.in); got != tc.want {
			t.Errorf("FormatSavings(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
