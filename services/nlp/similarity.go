package nlp

import "math"

// cosineSimilarity compares two texts as term-frequency vectors. It is a
// deterministic stand-in for an embedding model: the classifier contract
// (thresholds, priors, exact-match priority) does not depend on which
// similarity backend is plugged in.
func cosineSimilarity(a, b string) float64 {
	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	freqA := termFreq(ta)
	freqB := termFreq(tb)

	var dot, normA, normB float64
	for term, fa := range freqA {
		normA += fa * fa
		if fb, ok := freqB[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range freqB {
		normB += fb * fb
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFreq(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return freq
}
