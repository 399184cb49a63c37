package service

import (
	"regexp"
	"strings"
)

// comparisonPatterns are the lexical signals that mark a request as a
// comparison query. Matching is intentionally permissive; a false positive
// costs one model round-trip, a false negative rejects a valid request.
var comparisonPatterns = []string{
	`\bbetter\b`,
	`\bworse\b`,
	`\bcompare\b`,
	`\bcomparing\b`,
	`\bcomparison\b`,
	`\bversus\b`,
	`\bvs\b`,
	`\bvs\.`,
	`\bagainst\b`,
	`\bbetween\b`,
	`\bdifference\s+(between|of)\b`,
	`\bhow\s+does\b.*\bcompare\b.*\bto\b`,
	`\bhow\s+do\b.*\bcompare\b`,
	`\bwhich\s+(is|has|performs|does)\b.*\b(better|worse|higher|lower|more|less)\b`,
	`\b(is|are)\s+(better|worse|higher|lower|more|less)\b`,
	`\bthan\b`,
	`\brelative\s+to\b`,
}

var comparisonRe = regexp.MustCompile(`(?i)` + strings.Join(comparisonPatterns, "|"))

// IsComparisonQuery reports whether the user's input reads like a request to
// compare two entities.
func IsComparisonQuery(text string) bool {
	return comparisonRe.MatchString(text)
}
