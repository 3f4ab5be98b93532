package etikett

import (
	"sort"
	"strings"
)

// corrections normalizes the model's attribute vocabulary: attribute-name
// prefixes either collapse to a shorter form or are dropped entirely.
var corrections = []struct {
	old string
	new string
}{
	{"hair_color_", "hair_"},
	{"eye_color_", "eyes_"},
	{"scene_", ""},
	{"lighting_", ""},
	{"background_", ""},
}

// CleanTags parses a comma-separated model response into a deduplicated,
// sorted tag set. Fragments of the form "key: value" keep only the value.
// Malformed input degrades to fewer tags rather than an error.
func CleanTags(s string) []string {
	seen := map[string]bool{}
	tags := []string{}

	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}

		if _, value, ok := strings.Cut(tag, ":"); ok {
			tag = strings.TrimSpace(value)
		}

		for _, c := range corrections {
			tag = strings.ReplaceAll(tag, c.old, c.new)
		}

		tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", " "))
		if tag == "" || seen[tag] {
			continue
		}

		seen[tag] = true
		tags = append(tags, tag)
	}

	sort.Strings(tags)
	return tags
}
