// Package similarity provides the embedding-space math shared by the
// dual-encoder client and the retrieval layer: vector norms, distance and
// similarity kernels, temperature-scaled softmax, and top-k selection.
//
// Vectors are []float32 to match what the vector database stores;
// accumulation happens in float64 for numeric stability.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDimensionMismatch is returned when two vectors of different lengths
// are combined.
var ErrDimensionMismatch = errors.New("similarity: vector dimension mismatch")

// Dot returns the dot product of a and b.
func Dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum, nil
}

// Norm returns the Euclidean (L2) norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged since it has no direction.
func Normalize(v []float32) []float32 {
	norm := Norm(v)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Cosine returns the cosine similarity between a and b, in [-1, 1].
// If either vector has zero norm the similarity is 0.
func Cosine(a, b []float32) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (na * nb), nil
}

// Euclidean returns the L2 distance between a and b.
func Euclidean(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Softmax converts logits into a probability distribution. Temperature
// divides the logits before exponentiation: values below 1 sharpen the
// distribution, values above 1 flatten it. Temperature must be > 0.
// The max-logit is subtracted before exponentiation so large logit scales
// (e.g. CLIP's 100.0) do not overflow.
func Softmax(logits []float64, temperature float64) ([]float64, error) {
	if len(logits) == 0 {
		return nil, errors.New("similarity: softmax of empty slice")
	}
	if temperature <= 0 {
		return nil, fmt.Errorf("similarity: temperature must be > 0, got %g", temperature)
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	exps := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		exps[i] = math.Exp((l - maxLogit) / temperature)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps, nil
}

// Ranked pairs an index into the candidate set with its score.
type Ranked struct {
	Index int
	Score float64
}

// TopK returns the k highest-scoring entries, in descending score order.
// Ties keep the lower index first. If k exceeds len(scores) all entries
// are returned.
func TopK(scores []float64, k int) []Ranked {
	if k <= 0 {
		return nil
	}
	ranked := make([]Ranked, len(scores))
	for i, s := range scores {
		ranked[i] = Ranked{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
