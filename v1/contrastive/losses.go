// Package contrastive implements the loss functions used to train shared
// text/image embedding spaces: the classic margin-based contrastive loss,
// the triplet loss, and NT-Xent (the normalized temperature-scaled
// cross-entropy used by SimCLR- and CLIP-style objectives).
//
// These are inference-side utilities: they let callers evaluate how well a
// set of embeddings separates matched from unmatched pairs, e.g. when
// validating an embedding endpoint or scoring hard negatives for retrieval
// diagnostics. No gradient machinery is provided.
package contrastive

import (
	"errors"
	"fmt"
	"math"

	"github.com/vantage-ml/multimodal/v1/similarity"
)

// ErrEmptyBatch is returned when a batch-level loss receives no pairs.
var ErrEmptyBatch = errors.New("contrastive: empty batch")

// PairLoss computes the margin-based contrastive loss for a single pair.
//
// For a matched pair the loss is the squared Euclidean distance, pulling
// the embeddings together. For an unmatched pair it is
// max(0, margin - distance)^2, pushing them apart until they clear the
// margin. Margin must be > 0.
func PairLoss(a, b []float32, matched bool, margin float64) (float64, error) {
	if margin <= 0 {
		return 0, fmt.Errorf("contrastive: margin must be > 0, got %g", margin)
	}
	dist, err := similarity.Euclidean(a, b)
	if err != nil {
		return 0, err
	}

	if matched {
		return dist * dist, nil
	}
	hinge := margin - dist
	if hinge < 0 {
		return 0, nil
	}
	return hinge * hinge, nil
}

// TripletLoss computes max(0, d(anchor, positive) - d(anchor, negative) + margin)
// over Euclidean distances. A zero loss means the negative is already
// further from the anchor than the positive by at least the margin.
func TripletLoss(anchor, positive, negative []float32, margin float64) (float64, error) {
	if margin <= 0 {
		return 0, fmt.Errorf("contrastive: margin must be > 0, got %g", margin)
	}
	dPos, err := similarity.Euclidean(anchor, positive)
	if err != nil {
		return 0, fmt.Errorf("contrastive: anchor/positive: %w", err)
	}
	dNeg, err := similarity.Euclidean(anchor, negative)
	if err != nil {
		return 0, fmt.Errorf("contrastive: anchor/negative: %w", err)
	}

	loss := dPos - dNeg + margin
	if loss < 0 {
		return 0, nil
	}
	return loss, nil
}

// NTXent computes the normalized temperature-scaled cross-entropy loss over
// a batch of matched pairs: viewA[i] and viewB[i] are two views of the same
// item (e.g. an image and its caption), and every other element of the
// opposite view in the batch serves as a negative.
//
// The loss is averaged over both directions (A→B and B→A), which is how
// CLIP's symmetric objective is formulated. Temperature must be > 0 and
// the two views must have equal batch size; a batch of one has no negatives
// and is rejected.
func NTXent(viewA, viewB [][]float32, temperature float64) (float64, error) {
	if temperature <= 0 {
		return 0, fmt.Errorf("contrastive: temperature must be > 0, got %g", temperature)
	}
	n := len(viewA)
	if n == 0 {
		return 0, ErrEmptyBatch
	}
	if len(viewB) != n {
		return 0, fmt.Errorf("contrastive: view sizes differ: %d vs %d", n, len(viewB))
	}
	if n == 1 {
		return 0, errors.New("contrastive: NT-Xent needs at least 2 pairs for in-batch negatives")
	}

	// Pairwise cosine similarity matrix, scaled by 1/temperature.
	sims := make([][]float64, n)
	for i := range viewA {
		sims[i] = make([]float64, n)
		for j := range viewB {
			s, err := similarity.Cosine(viewA[i], viewB[j])
			if err != nil {
				return 0, fmt.Errorf("contrastive: pair (%d,%d): %w", i, j, err)
			}
			sims[i][j] = s / temperature
		}
	}

	var total float64
	for i := 0; i < n; i++ {
		rowLoss, err := crossEntropyAt(sims[i], i)
		if err != nil {
			return 0, err
		}
		colLoss, err := crossEntropyAt(column(sims, i), i)
		if err != nil {
			return 0, err
		}
		total += rowLoss + colLoss
	}

	return total / float64(2*n), nil
}

// crossEntropyAt returns -log softmax(logits)[target].
func crossEntropyAt(logits []float64, target int) (float64, error) {
	probs, err := similarity.Softmax(logits, 1.0)
	if err != nil {
		return 0, err
	}
	p := probs[target]
	if p <= 0 {
		// Softmax output is strictly positive in exact arithmetic; guard
		// against float underflow on extreme logit gaps.
		return math.Inf(1), nil
	}
	return -math.Log(p), nil
}

func column(m [][]float64, j int) []float64 {
	col := make([]float64, len(m))
	for i := range m {
		col[i] = m[i][j]
	}
	return col
}
