package brick

import "strings"

// Score computes the SMASH similarity between two strings. Higher means more
// similar; an exact case-insensitive match scores 1.0 and unrelated strings
// approach 0. The score combines three signals:
//
//   - normalized Damerau-Levenshtein similarity, which handles typos and
//     transpositions ("Temprature" vs "Temperature")
//   - a containment bonus when one string is a substring of the other,
//     weighted by how much of the longer string is covered
//   - an initials bonus when one string spells the leading characters of the
//     other's tokens ("ahu" vs "Air_Handling_Unit")
//
// Scoring is case-insensitive throughout. Same pair always yields the same
// score.
func Score(a, b string) float64 {
	al := strings.ToLower(a)
	bl := strings.ToLower(b)

	if al == bl {
		return 1.0
	}

	longest := max(len(al), len(bl))
	score := 1.0 - float64(damerauLevenshtein(al, bl))/float64(longest)

	if len(al) >= 2 && len(bl) >= 2 {
		if strings.Contains(bl, al) || strings.Contains(al, bl) {
			shortest := min(len(al), len(bl))
			score += 0.3 * float64(shortest) / float64(longest)
		}
	}

	if ini := initials(bl); len(ini) >= 2 && al == ini {
		score += 0.6
	} else if ini := initials(al); len(ini) >= 2 && bl == ini {
		score += 0.6
	}

	return score
}

// damerauLevenshtein calculates the minimum number of single-character
// insertions, deletions, substitutions, or adjacent transpositions required
// to change one string into another (optimal string alignment variant).
func damerauLevenshtein(s1, s2 string) int {
	len1, len2 := len(s1), len(s2)

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
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)

			// Adjacent transposition
			if i > 1 && j > 1 && s1[i-1] == s2[j-2] && s1[i-2] == s2[j-1] {
				matrix[i][j] = min(matrix[i][j], matrix[i-2][j-2]+1)
			}
		}
	}

	return matrix[len1][len2]
}

// initials returns the first character of each token in s, where tokens are
// separated by space, underscore, or dash. Used to match abbreviations
// against compound class names.
func initials(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})

	var sb strings.Builder
	for _, word := range words {
		sb.WriteByte(word[0])
	}
	return sb.String()
}
