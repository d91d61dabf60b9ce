package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	vectors := [][]float64{
		{1, 0},
		{0.3, 0.4, 0.5},
		{-1, 2, -3, 4},
	}
	for _, v := range vectors {
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float64{0.1, 0.9, -0.4}
	b := []float64{0.7, -0.2, 0.5}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_EdgeCasesReturnZero(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"nil first", nil, []float64{1, 0}},
		{"nil second", []float64{1, 0}, nil},
		{"both nil", nil, nil},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}},
		{"zero magnitude", []float64{0, 0}, []float64{1, 1}},
		{"both zero magnitude", []float64{0, 0}, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, Cosine(tt.a, tt.b))
		})
	}
}

func TestCosine_OppositeVectors(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{-1, -2}
	assert.InDelta(t, -1.0, Cosine(a, b), 1e-9)
}

func TestCosine_KnownValue(t *testing.T) {
	// [1,0] vs [0.7,0.7] = 0.7/ (1 * 0.7*sqrt(2)) = 1/sqrt(2)
	got := Cosine([]float64{1, 0}, []float64{0.7, 0.7})
	assert.InDelta(t, 1/math.Sqrt2, got, 1e-9)
}

func TestRank_SortedDescendingAndTruncated(t *testing.T) {
	query := []float64{1, 0}
	candidates := []Candidate{
		{Index: 0, Vector: []float64{0, 1}},     // 0
		{Index: 1, Vector: []float64{1, 0}},     // 1
		{Index: 2, Vector: []float64{0.7, 0.7}}, // ~0.707
	}

	matches := Rank(query, candidates, 2)
	assert.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].Index)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, 2, matches[1].Index)
	assert.InDelta(t, 0.7071, matches[1].Score, 1e-3)
}

func TestRank_FewerCandidatesThanK(t *testing.T) {
	matches := Rank([]float64{1, 0}, []Candidate{{Index: 0, Vector: []float64{1, 0}}}, 5)
	assert.Len(t, matches, 1)
}

func TestRank_TiesKeepCandidateOrder(t *testing.T) {
	query := []float64{1, 0}
	// Both candidates score 0 (missing vector and orthogonal vector).
	candidates := []Candidate{
		{Index: 7, Vector: nil},
		{Index: 3, Vector: []float64{0, 1}},
	}
	matches := Rank(query, candidates, 2)
	assert.Equal(t, 7, matches[0].Index)
	assert.Equal(t, 3, matches[1].Index)
}

func TestRank_EmptyInputs(t *testing.T) {
	assert.Empty(t, Rank([]float64{1}, nil, 3))
	assert.Empty(t, Rank([]float64{1}, []Candidate{{Index: 0, Vector: []float64{1}}}, 0))
}
