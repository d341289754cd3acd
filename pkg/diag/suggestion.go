package diag

import (
	"fmt"
	"strings"
)

// SuggestFieldName suggests possible field names when an unknown field shows
// up in strict mode. It uses Levenshtein distance to find the closest
// declared name.
func SuggestFieldName(unknown string, validFields []string) string {
	if len(validFields) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string
	for _, field := range validFields {
		dist := levenshteinDistance(unknown, field)
		if dist < minDistance {
			minDistance = dist
			bestMatch = field
		}
	}

	// Only suggest when the distance is reasonable (< 5 edits).
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(validFields) > 5 {
		return fmt.Sprintf("Declared fields include: %s, ...", strings.Join(validFields[:5], ", "))
	}
	return fmt.Sprintf("Declared fields: %s", strings.Join(validFields, ", "))
}

// FieldContext renders an excerpt of the schema's fields around the failing
// one, in declaration order, for human-readable error display. fields is the
// ordered name->descriptor listing; around is the failing field name.
func FieldContext(names []string, descriptors []string, around string, neighbors int) string {
	if len(names) == 0 || len(names) != len(descriptors) {
		return ""
	}

	at := -1
	for i, n := range names {
		if n == around {
			at = i
			break
		}
	}
	if at == -1 {
		return ""
	}

	start := at - neighbors
	if start < 0 {
		start = 0
	}
	end := at + neighbors
	if end >= len(names) {
		end = len(names) - 1
	}

	var sb strings.Builder
	for i := start; i <= end; i++ {
		prefix := "  "
		if i == at {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %s: %s\n", prefix, names[i], descriptors[i]))
	}
	return sb.String()
}

// levenshteinDistance computes the edit distance between two strings.
// Used for nearest-field suggestions.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}
	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}
