package wishart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wishart/internal/linop"
	"github.com/born-ml/wishart/internal/tensor"
)

func TestSampleN_ShapeContract(t *testing.T) {
	scale, _ := tensor.FromSlice([]float64{
		2, 0, 0, 2,
		3, 0, 0, 3,
	}, tensor.Shape{2, 2, 2})
	op, err := linop.NewDense(scale, true)
	require.NoError(t, err)
	w, err := New(tensor.Scalar(5), op, Options{})
	require.NoError(t, err)

	x, err := w.SampleN(7, 1)
	require.NoError(t, err)
	assert.True(t, x.Shape().Equal(tensor.Shape{7, 2, 2, 2}),
		"shape must be [n] + batchShape + [k, k]")
}

func TestSampleN_RejectsNonPositiveCount(t *testing.T) {
	w := newDense2x2(t, Options{})

	_, err := w.SampleN(0, 1)
	assert.Error(t, err)
	_, err = w.SampleN(-3, 1)
	assert.Error(t, err)
}

func TestSampleN_Deterministic(t *testing.T) {
	w := newDense2x2(t, Options{})

	a, err := w.SampleN(5, 42)
	require.NoError(t, err)
	b, err := w.SampleN(5, 42)
	require.NoError(t, err)
	assert.Equal(t, a.Data(), b.Data(), "identical seed must reproduce draws")

	c, err := w.SampleN(5, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestSampleN_DrawsArePositiveDefinite(t *testing.T) {
	w := newDense2x2(t, Options{})

	x, err := w.SampleN(20, 7)
	require.NoError(t, err)

	// Factoring every draw succeeds exactly when all are PD.
	_, err = tensor.CholeskyLower(x)
	assert.NoError(t, err)
}

func TestSampleN_CholeskyIOFactorsMatchDense(t *testing.T) {
	l, _ := tensor.FromSlice([]float64{2, 0, 1, 3}, tensor.Shape{2, 2})
	op, err := linop.NewCholesky(l, true)
	require.NoError(t, err)

	dense, err := New(tensor.Scalar(5), op, Options{})
	require.NoError(t, err)
	factored, err := New(tensor.Scalar(5), op, Options{CholeskyIO: true})
	require.NoError(t, err)

	xd, err := dense.SampleN(4, 11)
	require.NoError(t, err)
	xf, err := factored.SampleN(4, 11)
	require.NoError(t, err)

	// Same seed, same Bartlett factor: dense output is F·Fᵗ.
	back := tensor.MatMulT(xf, xf)
	for i := range xd.Data() {
		assert.InDelta(t, xd.Data()[i], back.Data()[i], 1e-10)
	}
}

// Law of large numbers: the sample mean converges to df·V.
func TestSampleN_MonteCarloMean(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte Carlo test")
	}

	l, _ := tensor.FromSlice([]float64{
		1, 0, 0,
		0.5, 1, 0,
		0.2, 0.3, 1,
	}, tensor.Shape{3, 3})
	v := tensor.MatMulT(l, l)
	op, err := linop.NewDense(v, true)
	require.NoError(t, err)

	df := 6.0
	w, err := New(tensor.Scalar(df), op, Options{})
	require.NoError(t, err)

	n := 20000
	x, err := w.SampleN(n, 1234)
	require.NoError(t, err)

	want, err := w.Mean()
	require.NoError(t, err)

	k := 3
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			var sum float64
			for s := 0; s < n; s++ {
				sum += x.At(s, i, j)
			}
			got := sum / float64(n)
			assert.InDelta(t, want.At(i, j), got, 0.3,
				"empirical mean entry (%d,%d)", i, j)
		}
	}
}

// With batched df, each batch member must be driven by its own degrees
// of freedom.
func TestSampleN_BatchedDF(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte Carlo test")
	}

	scale, _ := tensor.FromSlice([]float64{
		1, 0, 0, 1,
		1, 0, 0, 1,
	}, tensor.Shape{2, 2, 2})
	op, err := linop.NewDense(scale, true)
	require.NoError(t, err)
	df, _ := tensor.FromSlice([]float64{4, 16}, tensor.Shape{2})
	w, err := New(df, op, Options{})
	require.NoError(t, err)

	n := 8000
	x, err := w.SampleN(n, 99)
	require.NoError(t, err)

	for b := 0; b < 2; b++ {
		var sum float64
		for s := 0; s < n; s++ {
			sum += x.At(s, b, 0, 0)
		}
		assert.InDelta(t, df.At(b), sum/float64(n), 0.5, "batch member %d", b)
	}
}
