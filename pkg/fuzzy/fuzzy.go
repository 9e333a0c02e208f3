package fuzzy

import (
	"strings"
	"unicode"
)

// LevenshteinDistance calculates the edit distance between two strings
// after normalization. It measures how many single-character edits
// (insertions, deletions, or substitutions) are required to change one
// string into another.
func LevenshteinDistance(s1, s2 string) int {
	s1 = NormalizeModel(s1)
	s2 = NormalizeModel(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// NormalizeModel reduces a frame model or style name to a comparable form:
// uppercase alphanumerics only. Vendors are inconsistent about separators
// ("CA 8053/CS", "CA8053CS", "ca-8053_cs" all refer to the same style).
func NormalizeModel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ModelEquivalent reports whether two model designations refer to the same
// frame style. Exact normalized match always passes; otherwise a small edit
// distance is tolerated, scaled with the length of the shorter designation
// so that short codes stay strict.
func ModelEquivalent(a, b string) bool {
	na := NormalizeModel(a)
	nb := NormalizeModel(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	shorter := len(na)
	if len(nb) < shorter {
		shorter = len(nb)
	}
	threshold := 1
	if shorter >= 8 {
		threshold = 2
	}
	return LevenshteinDistance(na, nb) <= threshold
}

// ColorMatch reports whether a color designation matches, comparing the
// numeric code when both sides carry one and falling back to name overlap.
func ColorMatch(code, candidate string) bool {
	nc := NormalizeModel(code)
	ncand := NormalizeModel(candidate)
	if nc == "" || ncand == "" {
		return false
	}
	return nc == ncand || strings.Contains(ncand, nc) || strings.Contains(nc, ncand)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
