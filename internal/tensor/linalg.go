package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/wishart/internal/parallel"
)

// ErrNotPositiveDefinite is returned when a Cholesky factorization fails.
var ErrNotPositiveDefinite = errors.New("matrix is not positive definite")

// linalgCfg drives the worker pool for batched per-matrix operations.
var linalgCfg = parallel.DefaultConfig()

// matrixDims splits a tensor shape into leading batch dimensions and the
// trailing matrix dimensions. Panics if the tensor is not at least 2-D.
func matrixDims(t *Tensor, op string) (batch Shape, r, c int) {
	n := len(t.shape)
	if n < 2 {
		panic(fmt.Sprintf("%s: tensor of shape %v is not a batch of matrices", op, t.shape))
	}
	return t.shape[:n-2], t.shape[n-2], t.shape[n-1]
}

func sameBatchSquare(t *Tensor, op string) (batch Shape, k int) {
	batch, r, c := matrixDims(t, op)
	if r != c {
		panic(fmt.Sprintf("%s: trailing matrix dimensions must be square, got [%d, %d]", op, r, c))
	}
	return batch, r
}

// CholeskyLower computes the lower-triangular Cholesky factor of every
// trailing k×k matrix. Each input matrix must be symmetric positive
// definite; a failed factorization reports which batch member was bad.
func CholeskyLower(x *Tensor) (*Tensor, error) {
	batch, k := sameBatchSquare(x, "CholeskyLower")
	nb := batch.NumElements()
	out := Zeros(x.shape)
	errs := make([]error, nb)

	parallel.For(nb, func(b int) {
		block := x.data[b*k*k : (b+1)*k*k]
		sym := mat.NewSymDense(k, block)

		var ch mat.Cholesky
		if ok := ch.Factorize(sym); !ok {
			errs[b] = ErrNotPositiveDefinite
			return
		}

		var l mat.TriDense
		ch.LTo(&l)
		dst := out.data[b*k*k : (b+1)*k*k]
		for i := 0; i < k; i++ {
			for j := 0; j <= i; j++ {
				dst[i*k+j] = l.At(i, j)
			}
		}
	}, linalgCfg)

	for b, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch member %d: %w", b, err)
		}
	}
	return out, nil
}

// TriSolveLower solves L·Y = X for Y where every trailing matrix of l is
// lower triangular. l has shape [batch..., k, k], x has shape
// [batch..., k, m] with identical batch dimensions.
func TriSolveLower(l, x *Tensor) (*Tensor, error) {
	lBatch, k := sameBatchSquare(l, "TriSolveLower")
	xBatch, r, m := matrixDims(x, "TriSolveLower")
	if !lBatch.Equal(xBatch) || r != k {
		panic(fmt.Sprintf("TriSolveLower: shape mismatch %v vs %v", l.shape, x.shape))
	}
	nb := lBatch.NumElements()
	out := Zeros(x.shape)
	errs := make([]error, nb)

	parallel.For(nb, func(b int) {
		tri := mat.NewTriDense(k, mat.Lower, l.data[b*k*k:(b+1)*k*k])
		rhs := mat.NewDense(k, m, x.data[b*k*m:(b+1)*k*m])
		dst := mat.NewDense(k, m, out.data[b*k*m:(b+1)*k*m])
		if err := tri.SolveTo(dst, false, rhs); err != nil {
			errs[b] = err
		}
	}, linalgCfg)

	for b, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch member %d: triangular solve: %w", b, err)
		}
	}
	return out, nil
}

// MatMul computes A·B over the trailing two dimensions of equally
// batched tensors a [batch..., r, s] and b [batch..., s, c].
func MatMul(a, b *Tensor) *Tensor {
	aBatch, r, s := matrixDims(a, "MatMul")
	bBatch, s2, c := matrixDims(b, "MatMul")
	if !aBatch.Equal(bBatch) || s != s2 {
		panic(fmt.Sprintf("MatMul: shape mismatch %v vs %v", a.shape, b.shape))
	}
	nb := aBatch.NumElements()
	out := Zeros(aBatch.Concat(r, c))

	parallel.For(nb, func(i int) {
		am := mat.NewDense(r, s, a.data[i*r*s:(i+1)*r*s])
		bm := mat.NewDense(s, c, b.data[i*s*c:(i+1)*s*c])
		dst := mat.NewDense(r, c, out.data[i*r*c:(i+1)*r*c])
		dst.Mul(am, bm)
	}, linalgCfg)

	return out
}

// MatMulT computes A·Bᵗ over the trailing two dimensions of equally
// batched tensors a [batch..., r, s] and b [batch..., c, s].
func MatMulT(a, b *Tensor) *Tensor {
	aBatch, r, s := matrixDims(a, "MatMulT")
	bBatch, c, s2 := matrixDims(b, "MatMulT")
	if !aBatch.Equal(bBatch) || s != s2 {
		panic(fmt.Sprintf("MatMulT: shape mismatch %v vs %v", a.shape, b.shape))
	}
	nb := aBatch.NumElements()
	out := Zeros(aBatch.Concat(r, c))

	parallel.For(nb, func(i int) {
		am := mat.NewDense(r, s, a.data[i*r*s:(i+1)*r*s])
		bm := mat.NewDense(c, s, b.data[i*c*s:(i+1)*c*s])
		dst := mat.NewDense(r, c, out.data[i*r*c:(i+1)*r*c])
		dst.Mul(am, bm.T())
	}, linalgCfg)

	return out
}

// TriLower zeroes the strictly-upper triangle of every trailing square
// matrix, returning a fresh tensor.
func TriLower(x *Tensor) *Tensor {
	batch, k := sameBatchSquare(x, "TriLower")
	out := x.Clone()
	for b := 0; b < batch.NumElements(); b++ {
		block := out.data[b*k*k : (b+1)*k*k]
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				block[i*k+j] = 0
			}
		}
	}
	return out
}

// DiagPart extracts the diagonal of every trailing square matrix,
// mapping shape [batch..., k, k] to [batch..., k].
func DiagPart(x *Tensor) *Tensor {
	batch, k := sameBatchSquare(x, "DiagPart")
	out := Zeros(batch.Concat(k))
	for b := 0; b < batch.NumElements(); b++ {
		block := x.data[b*k*k : (b+1)*k*k]
		for i := 0; i < k; i++ {
			out.data[b*k+i] = block[i*k+i]
		}
	}
	return out
}

// SetDiag replaces the diagonal of every trailing square matrix with the
// values in d, which must have shape [batch..., k].
func SetDiag(x, d *Tensor) *Tensor {
	batch, k := sameBatchSquare(x, "SetDiag")
	if !d.shape.Equal(batch.Concat(k)) {
		panic(fmt.Sprintf("SetDiag: diagonal shape %v does not match matrix shape %v", d.shape, x.shape))
	}
	out := x.Clone()
	for b := 0; b < batch.NumElements(); b++ {
		block := out.data[b*k*k : (b+1)*k*k]
		for i := 0; i < k; i++ {
			block[i*k+i] = d.data[b*k+i]
		}
	}
	return out
}
