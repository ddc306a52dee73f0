package wishart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wishart/internal/linop"
	"github.com/born-ml/wishart/internal/tensor"
)

// newDense2x2 builds a single-instance distribution over 2×2 matrices
// with scale V = L·Lᵗ for L = [[2, 0], [1, 3]].
func newDense2x2(t *testing.T, opts Options) *Wishart {
	t.Helper()
	l, _ := tensor.FromSlice([]float64{2, 0, 1, 3}, tensor.Shape{2, 2})
	op, err := linop.NewDense(tensor.MatMulT(l, l), true)
	require.NoError(t, err)
	w, err := New(tensor.Scalar(5), op, opts)
	require.NoError(t, err)
	return w
}

func TestNew_Accessors(t *testing.T) {
	w := newDense2x2(t, Options{})

	assert.Equal(t, 2, w.Dimension())
	assert.Equal(t, 0, len(w.BatchShape()))
	assert.True(t, w.EventShape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, 5.0, w.DF().Item())
	assert.False(t, w.CholeskyIO())
	assert.False(t, w.AllowNaNStats())
	assert.True(t, w.ValidateArgs())
	assert.Contains(t, w.String(), "Wishart")

	scale, err := w.Scale()
	require.NoError(t, err)
	assert.True(t, scale.Shape().Equal(tensor.Shape{2, 2}))
}

func TestNew_RejectsSmallDF(t *testing.T) {
	op, err := linop.NewDense(tensor.Eye(nil, 2), true)
	require.NoError(t, err)

	_, err = New(tensor.Scalar(1.5), op, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegreesOfFreedom)

	// Disabling validation accepts the same arguments.
	_, err = New(tensor.Scalar(1.5), op, Options{SkipValidation: true})
	assert.NoError(t, err)
}

func TestNew_RejectsBatchedDFBelowDimension(t *testing.T) {
	scale, _ := tensor.FromSlice([]float64{1, 0, 0, 1, 2, 0, 0, 2}, tensor.Shape{2, 2, 2})
	op, err := linop.NewDense(scale, true)
	require.NoError(t, err)

	df, _ := tensor.FromSlice([]float64{5, 1}, tensor.Shape{2})
	_, err = New(df, op, Options{})
	assert.ErrorIs(t, err, ErrDegreesOfFreedom)
}

func TestNew_RejectsDFShapeMismatch(t *testing.T) {
	op, err := linop.NewDense(tensor.Eye(nil, 2), true)
	require.NoError(t, err)

	df, _ := tensor.FromSlice([]float64{3, 4, 5}, tensor.Shape{3})
	_, err = New(df, op, Options{})
	assert.Error(t, err)
}

func TestCDF_NotImplemented(t *testing.T) {
	w := newDense2x2(t, Options{})

	_, err := w.CDF(tensor.Eye(nil, 2))
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = w.LogCDF(tensor.Eye(nil, 2))
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestScale_CholeskyIO(t *testing.T) {
	l, _ := tensor.FromSlice([]float64{2, 0, 1, 3}, tensor.Shape{2, 2})
	op, err := linop.NewCholesky(l, true)
	require.NoError(t, err)
	w, err := New(tensor.Scalar(5), op, Options{CholeskyIO: true})
	require.NoError(t, err)

	scale, err := w.Scale()
	require.NoError(t, err)
	assert.Equal(t, l.Data(), scale.Data(), "cholesky I/O returns the factor itself")
}
