package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TruncateRunes shortens s to at most n runes. It never splits a rune.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return strings.TrimRightFunc(s[:pos], unicode.IsSpace)
		}
		i++
	}
	return s
}

// Tag converts s to lowercase snake_case: runs of anything other than
// letters and digits collapse to a single underscore.
func Tag(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Tags normalizes every value with Tag, dropping empties and duplicates
// while keeping first-seen order. It never returns nil.
func Tags(values ...[]string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, vs := range values {
		for _, v := range vs {
			t := Tag(v)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Key is the comparison key for candidate values: lowercased with
// whitespace collapsed.
func Key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
