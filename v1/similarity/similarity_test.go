package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	got, err := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 32.0, got, 1e-9)
}

func TestDot_DimensionMismatch(t *testing.T) {
	_, err := Dot([]float32{1, 2}, []float32{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	assert.InDelta(t, 1.0, Norm(v), 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestEuclidean(t *testing.T) {
	got, err := Euclidean([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestSoftmax_SumsToOne(t *testing.T) {
	probs, err := Softmax([]float64{2.0, 1.0, 0.1}, 1.0)
	require.NoError(t, err)

	var sum float64
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, probs[0], probs[1])
	assert.Greater(t, probs[1], probs[2])
}

func TestSoftmax_TemperatureSharpens(t *testing.T) {
	cold, err := Softmax([]float64{2.0, 1.0}, 0.1)
	require.NoError(t, err)
	warm, err := Softmax([]float64{2.0, 1.0}, 10.0)
	require.NoError(t, err)

	// Lower temperature concentrates mass on the top logit.
	assert.Greater(t, cold[0], warm[0])
}

func TestSoftmax_LargeLogitsDoNotOverflow(t *testing.T) {
	// Cosine scores scaled by CLIP's logit scale of 100.
	probs, err := Softmax([]float64{98.2, 95.1, 12.4}, 1.0)
	require.NoError(t, err)
	for _, p := range probs {
		assert.False(t, math.IsNaN(p))
		assert.False(t, math.IsInf(p, 0))
	}
}

func TestSoftmax_Errors(t *testing.T) {
	_, err := Softmax(nil, 1.0)
	assert.Error(t, err)

	_, err = Softmax([]float64{1.0}, 0)
	assert.Error(t, err)
}

func TestTopK(t *testing.T) {
	scores := []float64{0.1, 0.9, 0.5, 0.7}

	top := TopK(scores, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Index)
	assert.Equal(t, 3, top[1].Index)
}

func TestTopK_KLargerThanInput(t *testing.T) {
	top := TopK([]float64{0.2, 0.4}, 10)
	assert.Len(t, top, 2)
}

func TestTopK_StableOnTies(t *testing.T) {
	top := TopK([]float64{0.5, 0.5, 0.5}, 3)
	assert.Equal(t, 0, top[0].Index)
	assert.Equal(t, 1, top[1].Index)
	assert.Equal(t, 2, top[2].Index)
}
