package contrastive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairLoss_MatchedPair(t *testing.T) {
	// Identical embeddings: nothing to pull together.
	loss, err := PairLoss([]float32{1, 0}, []float32{1, 0}, true, 1.0)
	require.NoError(t, err)
	assert.Zero(t, loss)

	// Distance 1 → squared distance 1.
	loss, err = PairLoss([]float32{0, 0}, []float32{1, 0}, true, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, loss, 1e-9)
}

func TestPairLoss_UnmatchedPair(t *testing.T) {
	// Unmatched pair already beyond the margin: no loss.
	loss, err := PairLoss([]float32{0, 0}, []float32{5, 0}, false, 1.0)
	require.NoError(t, err)
	assert.Zero(t, loss)

	// Unmatched pair at distance 0 with margin 2 → hinge 2, squared 4.
	loss, err = PairLoss([]float32{1, 1}, []float32{1, 1}, false, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, loss, 1e-9)
}

func TestPairLoss_InvalidMargin(t *testing.T) {
	_, err := PairLoss([]float32{1}, []float32{1}, false, 0)
	assert.Error(t, err)
}

func TestTripletLoss(t *testing.T) {
	anchor := []float32{0, 0}
	positive := []float32{1, 0}  // distance 1
	negative := []float32{10, 0} // distance 10

	// Negative far enough away: loss hinges to zero.
	loss, err := TripletLoss(anchor, positive, negative, 1.0)
	require.NoError(t, err)
	assert.Zero(t, loss)

	// Negative closer than positive: d(a,p)=1, d(a,n)=0.5 → 1 - 0.5 + 1 = 1.5.
	loss, err = TripletLoss(anchor, positive, []float32{0.5, 0}, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, loss, 1e-9)
}

func TestTripletLoss_DimensionMismatch(t *testing.T) {
	_, err := TripletLoss([]float32{0, 0}, []float32{1}, []float32{1, 1}, 1.0)
	assert.Error(t, err)
}

func TestNTXent_AlignedBatchHasLowLoss(t *testing.T) {
	// Perfectly aligned views: each pair identical, negatives orthogonal.
	viewA := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	viewB := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	aligned, err := NTXent(viewA, viewB, 0.1)
	require.NoError(t, err)

	// Shuffled views: positives no longer line up.
	shuffled := [][]float32{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}}
	misaligned, err := NTXent(viewA, shuffled, 0.1)
	require.NoError(t, err)

	assert.Less(t, aligned, misaligned)
}

func TestNTXent_SymmetricInViews(t *testing.T) {
	viewA := [][]float32{{1, 0.2, 0}, {0.1, 1, 0}}
	viewB := [][]float32{{0.9, 0, 0.1}, {0, 0.8, 0.3}}

	ab, err := NTXent(viewA, viewB, 0.5)
	require.NoError(t, err)
	ba, err := NTXent(viewB, viewA, 0.5)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-9)
}

func TestNTXent_LossIsFinite(t *testing.T) {
	viewA := [][]float32{{1, 0}, {0, 1}, {-1, 0}}
	viewB := [][]float32{{0.9, 0.1}, {0.1, 0.9}, {-0.8, -0.2}}

	loss, err := NTXent(viewA, viewB, 0.07)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(loss))
	assert.False(t, math.IsInf(loss, 0))
	assert.Greater(t, loss, 0.0)
}

func TestNTXent_Errors(t *testing.T) {
	_, err := NTXent(nil, nil, 0.1)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = NTXent([][]float32{{1}}, [][]float32{{1}}, 0.1)
	assert.Error(t, err) // single pair has no negatives

	_, err = NTXent([][]float32{{1}, {2}}, [][]float32{{1}}, 0.1)
	assert.Error(t, err) // size mismatch

	_, err = NTXent([][]float32{{1}, {2}}, [][]float32{{1}, {2}}, 0)
	assert.Error(t, err) // bad temperature
}
