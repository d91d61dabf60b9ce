package vector

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity between two vectors, in [-1, 1].
// Absent vectors, mismatched lengths, and zero-magnitude vectors are defined
// edge cases that return exactly 0 rather than an error, so an item with a
// missing or incompatible embedding ranks last instead of aborting a batch.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Candidate pairs an opaque index with its embedding vector
type Candidate struct {
	Index  int
	Vector []float64
}

// Match is a ranked candidate with its similarity score
type Match struct {
	Index int
	Score float64
}

// Rank scores every candidate against the query vector and returns the top k,
// sorted descending by score. The sort is stable: ties keep the original
// candidate order. The result never exceeds k entries.
func Rank(query []float64, candidates []Candidate, k int) []Match {
	if k <= 0 || len(candidates) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{Index: c.Index, Score: Cosine(query, c.Vector)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
