// Package names provides pure player-name normalization helpers shared by the
// identity resolver and the player map loader.
package names

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
	suffix      = regexp.MustCompile(`(?i)\s(jr|sr|ii|iii|iv|v)$`)
	nonWord     = regexp.MustCompile(`[^\w]`)
)

// Normalize lowercases a name, strips punctuation, collapses whitespace and
// drops a trailing generational suffix. Idempotent on its own output.
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = punctuation.ReplaceAllString(n, "")
	n = whitespace.ReplaceAllString(n, " ")
	n = suffix.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

// AggressiveNormalize strips every non-word character, including spaces, so
// hyphenated and spaced spellings of the same name collide.
func AggressiveNormalize(name string) string {
	n := strings.ToLower(name)
	n = suffix.ReplaceAllString(n, "")
	n = nonWord.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

// Variations returns the deduplicated lookup keys for a name: the normalized
// form, the aggressive form, the form without a leading suffix token, and the
// first/last tokens when long enough to be distinctive.
func Variations(name string) []string {
	normalized := Normalize(name)
	variations := []string{normalized}

	variations = append(variations, AggressiveNormalize(name))

	withoutPrefix := strings.TrimSpace(leadingSuffix.ReplaceAllString(normalized, ""))
	if withoutPrefix != normalized {
		variations = append(variations, withoutPrefix)
	}

	tokens := strings.Fields(normalized)
	if len(tokens) > 0 {
		first := tokens[0]
		if len(first) > 2 {
			variations = append(variations, first)
		}
		last := tokens[len(tokens)-1]
		if len(last) > 2 && last != first {
			variations = append(variations, last)
		}
	}

	return dedupe(variations)
}

var leadingSuffix = regexp.MustCompile(`(?i)^(jr|sr|ii|iii|iv|v)\s+`)

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
