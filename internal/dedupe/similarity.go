package dedupe

// Similarity returns a [0,1] score for two normalized names based on edit
// distance over the longer length. Identical strings score 1, disjoint
// strings approach 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

// editDistance computes the Levenshtein distance with a two-row table.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// maxPossibleSimilarity bounds the similarity achievable given only the two
// lengths, letting the fuzzy pass skip the distance table for hopeless pairs.
func maxPossibleSimilarity(la, lb int) float64 {
	if la == 0 || lb == 0 {
		return 0
	}
	longest, shortest := la, lb
	if lb > longest {
		longest, shortest = lb, la
	}
	return float64(shortest) / float64(longest)
}
