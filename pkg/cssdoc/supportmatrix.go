package cssdoc

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/cssdoc/cssdoc/internal/compat"
)

// LoadSupportMatrix parses a browserslist-style YAML document — engine
// name to a version (or version prefix) — into the map[Engine][]int form
// PrefixOptions.Constraints expects:
//
//	chrome: [90]
//	firefox: [78]
//	safari: [13, 1]
//
// An engine name not recognized by internal/compat.StringToEngine is
// reported as an error rather than silently ignored, since a typo'd engine
// name in a support matrix would otherwise make the prefixer silently stop
// targeting it.
func LoadSupportMatrix(data []byte) (map[compat.Engine][]int, error) {
	var raw map[string][]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ErrProcessing.Wrap(err, "parsing support matrix")
	}

	out := make(map[compat.Engine][]int, len(raw))
	for name, version := range raw {
		engine, ok := compat.StringToEngine[name]
		if !ok {
			return nil, ErrProcessing.New(fmt.Sprintf("unknown browser engine %q in support matrix", name))
		}
		out[engine] = version
	}
	return out, nil
}
