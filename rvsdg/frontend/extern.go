package frontend

import (
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/rvsdg-ir/core/passes"
)

// reservedPrefixes names the external-linkage prefixes inline eligibility
// must never cross (§4.7 "preserves decouple_/hls_-prefixed externals").
var reservedPrefixes = []string{"decouple_", "hls_"}

// DefaultExternLookup reports whether symbol carries one of the reserved
// decouple_/hls_ prefixes, with no manifest consulted.
func DefaultExternLookup(symbol string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(symbol, prefix) {
			return true
		}
	}
	return false
}

// ParseManifest parses a small go.mod-shaped external-linkage manifest,
// exactly the way inspector/repository.Detector reads a real go.mod via
// golang.org/x/mod/modfile: every `require` line names a symbol this
// harness should treat as externally linked, in addition to the
// decouple_/hls_ prefix rule DefaultExternLookup already applies. path is
// used only for modfile's error messages; it need not exist on disk.
//
//	module harness
//
//	require decouple_legacy_adapter v0.0.0
//	require hls_pipeline_stage v0.0.0
//
// This is harness/test configuration only: production symbol resolution is
// out of scope (§1 Non-goals, surface front-end).
func ParseManifest(path string, data []byte) (passes.ExternLookup, error) {
	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, err
	}
	reserved := make(map[string]bool, len(f.Require))
	for _, r := range f.Require {
		reserved[r.Mod.Path] = true
	}
	return func(symbol string) bool {
		if reserved[symbol] {
			return true
		}
		return DefaultExternLookup(symbol)
	}, nil
}
