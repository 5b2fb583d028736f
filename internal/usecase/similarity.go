package usecase

// Weights for combining the two similarity signals. Keyword overlap
// dominates because product titles vary heavily in word order and
// marketing filler while still sharing topical tokens.
const (
	sequenceWeight = 0.4
	keywordWeight  = 0.6
)

// Similarity scores how alike two product names are, in [0,1]. It blends a
// character-level sequence ratio of the normalized strings with the Jaccard
// similarity of their keyword sets. Returns exactly 0.0 when either input
// normalizes to empty, and the raw sequence ratio when either keyword set
// is empty. Total and symmetric.
func Similarity(nameA, nameB string) float64 {
	normA := Normalize(nameA)
	normB := Normalize(nameB)
	if normA == "" || normB == "" {
		return 0.0
	}

	seqRatio := sequenceRatio(normA, normB)

	kwA := ExtractKeywords(nameA, defaultKeywordMinLength)
	kwB := ExtractKeywords(nameB, defaultKeywordMinLength)
	if len(kwA) == 0 || len(kwB) == 0 {
		return seqRatio
	}

	intersection := 0
	for kw := range kwA {
		if kwB[kw] {
			intersection++
		}
	}
	union := len(kwA) + len(kwB) - intersection
	jaccard := float64(intersection) / float64(union)

	return seqRatio*sequenceWeight + jaccard*keywordWeight
}

// sequenceRatio is the Ratcliff/Obershelp similarity of two strings:
// twice the number of characters in recursively-found longest matching
// blocks, divided by the total length. 1.0 for identical strings, 0.0 when
// either is empty. Operates on runes so multi-byte scripts compare fairly.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	matched := matchingRunes(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingRunes counts runes covered by the longest common block and,
// recursively, the blocks on either side of it.
func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingRunes(a[:ai], b[:bi])
	total += matchingRunes(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common contiguous run of a and b,
// preferring the earliest occurrence in a, then in b, on ties.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] holds the common-suffix length ending at a[i], b[j-1]
	// from the previous row.
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		// Walk b right-to-left so lengths[j-1] still holds the prior row.
		for j := len(b); j >= 1; j-- {
			if a[i] == b[j-1] {
				lengths[j] = lengths[j-1] + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size + 1
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
		}
	}
	return ai, bi, size
}
