package linop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wishart/internal/tensor"
)

// testPair builds a Dense operator from V = L·Lᵗ and a Cholesky
// operator from L itself, for a fixed well-conditioned 2×2 case.
func testPair(t *testing.T) (*Dense, *Cholesky) {
	t.Helper()

	l, err := tensor.FromSlice([]float64{2, 0, 1, 3}, tensor.Shape{2, 2})
	require.NoError(t, err)
	v := tensor.MatMulT(l, l) // [[4, 2], [2, 10]]

	dense, err := NewDense(v, true)
	require.NoError(t, err)
	chol, err := NewCholesky(l, true)
	require.NoError(t, err)
	return dense, chol
}

func TestOperators_Interchangeable(t *testing.T) {
	dense, chol := testPair(t)
	ops := map[string]ScaleOperator{"dense": dense, "cholesky": chol}

	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	var wantSolve, wantMul, wantDense, wantSqrt []float64
	for name, op := range ops {
		assert.Equal(t, 2, op.Dimension(), name)
		assert.Equal(t, 0, len(op.BatchShape()), name)

		sol, err := op.SqrtSolve(x)
		require.NoError(t, err, name)
		mul, err := op.SqrtMatmul(x)
		require.NoError(t, err, name)
		sq, err := op.SqrtToDense()
		require.NoError(t, err, name)
		dn := op.ToDense()

		if wantSolve == nil {
			wantSolve, wantMul = sol.Data(), mul.Data()
			wantDense, wantSqrt = dn.Data(), sq.Data()
			continue
		}
		for i := range wantSolve {
			assert.InDelta(t, wantSolve[i], sol.Data()[i], 1e-12, "%s SqrtSolve[%d]", name, i)
			assert.InDelta(t, wantMul[i], mul.Data()[i], 1e-12, "%s SqrtMatmul[%d]", name, i)
		}
		for i := range wantDense {
			assert.InDelta(t, wantDense[i], dn.Data()[i], 1e-12, "%s ToDense[%d]", name, i)
			assert.InDelta(t, wantSqrt[i], sq.Data()[i], 1e-12, "%s SqrtToDense[%d]", name, i)
		}
	}
}

func TestLogDet(t *testing.T) {
	dense, chol := testPair(t)

	// det V = det(L)² = (2·3)² = 36.
	want := math.Log(36)
	for name, op := range map[string]ScaleOperator{"dense": dense, "cholesky": chol} {
		ld, err := op.LogDet()
		require.NoError(t, err, name)
		assert.InDelta(t, want, ld.Item(), 1e-12, name)

		half, err := op.SqrtLogDet()
		require.NoError(t, err, name)
		assert.InDelta(t, want/2, half.Item(), 1e-12, name)
	}
}

func TestSqrtSolve_InvertsSqrtMatmul(t *testing.T) {
	dense, _ := testPair(t)

	x, _ := tensor.FromSlice([]float64{1, 0, 2, 1}, tensor.Shape{2, 2})
	y, err := dense.SqrtMatmul(x)
	require.NoError(t, err)
	back, err := dense.SqrtSolve(y)
	require.NoError(t, err)

	for i := range x.Data() {
		assert.InDelta(t, x.Data()[i], back.Data()[i], 1e-12)
	}
}

func TestNewDense_RejectsIndefinite(t *testing.T) {
	bad, _ := tensor.FromSlice([]float64{1, 2, 2, 1}, tensor.Shape{2, 2})

	_, err := NewDense(bad, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, tensor.ErrNotPositiveDefinite)

	// Without validation, construction succeeds and the failure
	// surfaces on first use of the factor.
	op, err := NewDense(bad, false)
	require.NoError(t, err)
	_, err = op.SqrtLogDet()
	assert.ErrorIs(t, err, tensor.ErrNotPositiveDefinite)
}

func TestNewCholesky_RejectsNonPositiveDiagonal(t *testing.T) {
	bad, _ := tensor.FromSlice([]float64{1, 0, 5, -2}, tensor.Shape{2, 2})

	_, err := NewCholesky(bad, true)
	assert.Error(t, err)

	// Skipping validation accepts the data as-is.
	_, err = NewCholesky(bad, false)
	assert.NoError(t, err)
}

func TestNewDense_RejectsNonSquare(t *testing.T) {
	_, err := NewDense(tensor.Zeros(tensor.Shape{2, 3}), false)
	assert.Error(t, err)
	_, err = NewDense(tensor.Zeros(tensor.Shape{4}), false)
	assert.Error(t, err)
}

func TestCholesky_IgnoresUpperTriangle(t *testing.T) {
	l, _ := tensor.FromSlice([]float64{2, 0, 1, 3}, tensor.Shape{2, 2})
	withJunk, _ := tensor.FromSlice([]float64{2, 99, 1, 3}, tensor.Shape{2, 2})

	a, err := NewCholesky(l, true)
	require.NoError(t, err)
	b, err := NewCholesky(withJunk, true)
	require.NoError(t, err)

	assert.Equal(t, a.ToDense().Data(), b.ToDense().Data())

	x, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2, 1})
	sa, err := a.SqrtSolve(x)
	require.NoError(t, err)
	sb, err := b.SqrtSolve(x)
	require.NoError(t, err)
	assert.Equal(t, sa.Data(), sb.Data())
}

func TestOperators_Batched(t *testing.T) {
	// Two diagonal scale matrices: diag(4, 9) and diag(1, 16).
	v, _ := tensor.FromSlice([]float64{4, 0, 0, 9, 1, 0, 0, 16}, tensor.Shape{2, 2, 2})
	op, err := NewDense(v, true)
	require.NoError(t, err)

	assert.True(t, op.BatchShape().Equal(tensor.Shape{2}))

	ld, err := op.LogDet()
	require.NoError(t, err)
	require.True(t, ld.Shape().Equal(tensor.Shape{2}))
	assert.InDelta(t, math.Log(36), ld.At(0), 1e-12)
	assert.InDelta(t, math.Log(16), ld.At(1), 1e-12)
}
