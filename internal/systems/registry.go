package systems

import (
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"romshelf/internal/logging"
)

// ambiguousExtensions are claimed by more than one provider; classification
// for these relies on header validation rather than the extension alone.
var ambiguousExtensions = map[string]struct{}{
	".bin": {},
	".iso": {},
	".cue": {},
	".chd": {},
	".cso": {},
}

// Registry maps file extensions to candidate providers. Registration order is
// preserved: when several providers claim an extension and none validates the
// content, the first registered candidate wins as the fallback.
type Registry struct {
	providers []Provider
	byExt     map[string][]Provider
	byID      map[string]Provider
	logger    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{
		byExt:  make(map[string][]Provider),
		byID:   make(map[string]Provider),
		logger: logging.WithComponent(logger, "systems"),
	}
}

// Register adds a provider. Later registrations for the same extension rank
// behind earlier ones.
func (reg *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	if _, exists := reg.byID[p.ID()]; exists {
		return
	}
	reg.providers = append(reg.providers, p)
	reg.byID[p.ID()] = p
	for _, ext := range p.Extensions() {
		ext = strings.ToLower(ext)
		reg.byExt[ext] = append(reg.byExt[ext], p)
	}
}

// Default returns a registry populated with every built-in console provider.
func Default(logger *slog.Logger) *Registry {
	reg := NewRegistry(logger)
	for _, p := range []Provider{
		NewSNES(),
		NewNES(),
		NewGenesis(),
		NewN64(),
		NewGameBoy(),
		NewGBA(),
		NewPSX(),
		NewPS2(),
		NewPSP(),
		NewGameCube(),
	} {
		reg.Register(p)
	}
	return reg
}

// ByID returns the provider with the given system identifier.
func (reg *Registry) ByID(id string) (Provider, bool) {
	p, ok := reg.byID[strings.ToLower(strings.TrimSpace(id))]
	return p, ok
}

// IDs returns all registered system identifiers sorted lexically.
func (reg *Registry) IDs() []string {
	ids := make([]string, 0, len(reg.byID))
	for id := range reg.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Candidates returns the providers claiming a path's extension in
// registration order.
func (reg *Registry) Candidates(path string) []Provider {
	return reg.byExt[strings.ToLower(filepath.Ext(path))]
}

// Classify determines which console a file belongs to.
//
// Zero-byte files never validate and classify only by extension. When the
// extension is claimed by several providers, the first whose header
// validation accepts the content wins. When no candidate validates, the first
// registered candidate is used as an extension-based fallback so the file
// still enters the catalog.
func (reg *Registry) Classify(path string, r io.ReaderAt, size int64) (Provider, bool) {
	candidates := reg.Candidates(path)
	if len(candidates) == 0 {
		return nil, false
	}

	if size > 0 && r != nil {
		for _, candidate := range candidates {
			if candidate.Validate(r, size) {
				return candidate, true
			}
		}
	}

	fallback := candidates[0]
	reg.logger.Debug("falling back to extension classification",
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldSystem, fallback.ID()),
	)
	return fallback, false
}

// Ambiguous reports whether an extension is claimed by multiple consoles.
func Ambiguous(ext string) bool {
	_, ok := ambiguousExtensions[strings.ToLower(ext)]
	return ok
}
