package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Filter matches an income statement line-item label.
type Filter interface {
	Match(label string) bool
}

// Parse builds a filter from an expression:
// - "" matches everything
// - "/^Net/" is a regular expression
// - "Total Revenue,Net Income" is a case-insensitive set of exact labels
// - "*Income*" is a glob
// - anything else is a case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return All{}, nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("item filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			if p = strings.TrimSpace(p); p != "" {
				set[strings.ToLower(p)] = struct{}{}
			}
		}
		return Labels{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("item filter %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return Contains{needle: strings.ToLower(expr)}, nil
}

// All matches every label.
type All struct{}

func (All) Match(string) bool { return true }
func (All) String() string    { return "all" }

// Labels matches any of a set of labels, ignoring case.
type Labels struct{ set map[string]struct{} }

func (l Labels) Match(label string) bool {
	_, ok := l.set[strings.ToLower(label)]
	return ok
}

func (l Labels) String() string { return fmt.Sprintf("labels:%d", len(l.set)) }

// Glob matches with filepath.Match semantics.
type Glob struct{ pattern string }

func (g Glob) Match(label string) bool {
	ok, _ := filepath.Match(g.pattern, label)
	return ok
}

func (g Glob) String() string { return "glob:" + g.pattern }

// Regex matches a compiled regular expression.
type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(label string) bool { return r.re.MatchString(label) }
func (r Regex) String() string          { return "regex:" + r.re.String() }

// Contains is a case-insensitive substring match.
type Contains struct{ needle string }

func (c Contains) Match(label string) bool {
	return strings.Contains(strings.ToLower(label), c.needle)
}

func (c Contains) String() string { return "contains:" + c.needle }
