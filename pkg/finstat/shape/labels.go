package shape

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label turns a camel-case provider identifier into a title-cased label:
// "totalRevenue" -> "Total Revenue". Every uppercase rune opens a new word.
func Label(id string) string {
	var (
		words []string
		cur   strings.Builder
	)
	for _, r := range id {
		if unicode.IsUpper(r) && cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	// cases.Caser is stateful; use a fresh one per call.
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

// Labels applies Label to each identifier.
func Labels(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Label(id)
	}
	return out
}
