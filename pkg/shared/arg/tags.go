package arg

import (
	"strings"
)

// ParseTags splits a tag argument on commas and whitespace. A leading #
// is dropped.
func ParseTags(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimPrefix(f, "#")
		if f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}

// Dedupe drops repeated tags, keeping the first occurrence.
func Dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := tags[:0:0]
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// HandleContent joins the arguments after the first n into a note body.
func HandleContent(args []string, n int) string {
	if len(args) <= n {
		return ""
	}
	return strings.Join(args[n:], " ")
}
