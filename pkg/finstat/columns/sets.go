package columns

import (
	"sort"
	"strings"

	"github.com/komsit37/finstat/pkg/finstat/stats"
)

// Sets defines named metric groups.
// - "returns": growth metrics
// - "risk": dispersion and risk-adjusted ratios
// - "all": everything in display order
var Sets = map[string][]string{
	"returns": {stats.KeyCAGR},
	"risk": {
		stats.KeyVolatility,
		stats.KeyDownsideVolatility,
		stats.KeySharpe,
		stats.KeySortino,
	},
	"all": {
		stats.KeyCAGR,
		stats.KeyVolatility,
		stats.KeyDownsideVolatility,
		stats.KeySharpe,
		stats.KeySortino,
	},
}

// ExpandSets returns the metric keys named directly or through a set. Order
// of first appearance is kept and duplicates are dropped.
func ExpandSets(names []string) ([]string, error) {
	out := make([]string, 0, len(Registry))
	seen := map[string]struct{}{}
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if keys, ok := Sets[name]; ok {
			for _, k := range keys {
				add(k)
			}
			continue
		}
		if _, ok := Registry[name]; ok {
			add(name)
			continue
		}
		return nil, &UnknownSetError{Name: name, Available: available()}
	}
	return out, nil
}

// UnknownSetError reports a name that is neither a metric nor a set.
type UnknownSetError struct {
	Name      string
	Available []string
}

func (e *UnknownSetError) Error() string {
	return "unknown metric or set: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}

func available() []string {
	keys := make([]string, 0, len(Sets)+len(Registry))
	for k := range Sets {
		keys = append(keys, k)
	}
	for k := range Registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
