package shape

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// KeySep joins path components in flattened keys.
const KeySep = "_"

// keyParts is the number of components in a flattened statement key:
// ticker, ref (statement slot), period, line item.
const keyParts = 4

// KeyError reports a flattened key that does not decompose into exactly
// four components.
type KeyError struct {
	Key   string
	Parts int
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("statement key %q: expected %d %q-separated parts, got %d", e.Key, keyParts, KeySep, e.Parts)
}

// ValueError reports a statement leaf that is not numeric.
type ValueError struct {
	Key   string
	Value any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("statement key %q: non-numeric value %v (%T)", e.Key, e.Value, e.Value)
}

// Flatten collapses nested maps and slices into a single-level map whose keys
// are the path components joined by sep. Slice elements use their index.
// Empty maps and slices produce no keys.
func Flatten(nested map[string]any, sep string) map[string]any {
	out := make(map[string]any)
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		switch n := v.(type) {
		case map[string]any:
			for k, child := range n {
				walk(join(prefix, k, sep), child)
			}
		case types.Statement:
			walk(prefix, map[string]any(n))
		case []any:
			for i, child := range n {
				walk(join(prefix, strconv.Itoa(i), sep), child)
			}
		case []map[string]any:
			for i, child := range n {
				walk(join(prefix, strconv.Itoa(i), sep), child)
			}
		default:
			out[prefix] = v
		}
	}
	for k, v := range nested {
		walk(k, v)
	}
	return out
}

func join(prefix, k, sep string) string {
	if prefix == "" {
		return k
	}
	return prefix + sep + k
}

// StatementKey is a decomposed flattened statement key.
type StatementKey struct {
	Ticker string
	Ref    string
	Period string
	Item   string
}

// DecomposeKey splits "AAPL_0_2023-12-31_totalRevenue" into its four parts.
func DecomposeKey(key string) (StatementKey, error) {
	parts := strings.Split(key, KeySep)
	if len(parts) != keyParts {
		return StatementKey{}, &KeyError{Key: key, Parts: len(parts)}
	}
	for _, p := range parts {
		if p == "" {
			return StatementKey{}, &KeyError{Key: key, Parts: len(parts)}
		}
	}
	return StatementKey{Ticker: parts[0], Ref: parts[1], Period: parts[2], Item: parts[3]}, nil
}

// Facts flattens merged per-ticker statements into one fact per numeric leaf.
// The ref component is dropped and the item is converted with Label. Null
// leaves are skipped. Output is ordered by ticker, period (newest first), then
// item.
func Facts(st types.Statement) ([]types.IncomeStatementFact, error) {
	flat := Flatten(st, KeySep)
	facts := make([]types.IncomeStatementFact, 0, len(flat))
	for key, raw := range flat {
		if raw == nil {
			continue
		}
		k, err := DecomposeKey(key)
		if err != nil {
			return nil, err
		}
		v, ok := toFloat(raw)
		if !ok {
			return nil, &ValueError{Key: key, Value: raw}
		}
		facts = append(facts, types.IncomeStatementFact{
			Ticker: k.Ticker,
			Period: k.Period,
			Item:   Label(k.Item),
			Value:  v,
		})
	}
	sort.Slice(facts, func(i, j int) bool {
		a, b := facts[i], facts[j]
		if a.Ticker != b.Ticker {
			return a.Ticker < b.Ticker
		}
		if a.Period != b.Period {
			return a.Period > b.Period
		}
		return a.Item < b.Item
	})
	return facts, nil
}

// Merge combines per-ticker statements into one nested value, later tickers
// replacing earlier ones on key collision.
func Merge(sts ...types.Statement) types.Statement {
	out := types.Statement{}
	for _, st := range sts {
		for k, v := range st {
			out[k] = v
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
