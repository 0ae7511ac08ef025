package experiment

import (
	"regexp"
	"sort"
)

// ScanArtifact checks a generated artifact for literal occurrences of the
// hidden label, its plural, or any configured synonym. The suppression rules
// are enforced by instruction only, so this is a post-hoc check, not a
// runtime guarantee. Matches are whole words, case-insensitive.
func ScanArtifact(artifact, hiddenLabel string, synonyms map[string][]string) []string {
	terms := []string{hiddenLabel}
	terms = append(terms, synonyms[hiddenLabel]...)

	seen := make(map[string]bool)
	var found []string
	for _, term := range terms {
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true

		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `s?\b`)
		if re.MatchString(artifact) {
			found = append(found, term)
		}
	}

	sort.Strings(found)
	return found
}
