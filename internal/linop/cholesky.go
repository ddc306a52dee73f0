package linop

import (
	"fmt"

	"github.com/born-ml/wishart/internal/tensor"
)

// Cholesky is a ScaleOperator backed by a caller-supplied
// lower-triangular factor L, representing V = L·Lᵗ. It never factorizes
// anything, which is what makes Cholesky-parameterized distributions an
// O(k³)-per-call improvement over dense ones.
//
// Only the lower triangle of the wrapped tensor is ever read; the
// strictly-upper triangle is ignored. The tensor is referenced, not
// copied.
type Cholesky struct {
	factor *tensor.Tensor
	batch  tensor.Shape
	k      int
}

var _ ScaleOperator = (*Cholesky)(nil)

// NewCholesky wraps a batch of lower-triangular factors of shape
// [batch..., k, k]. When validate is true, every diagonal entry must be
// strictly positive (the factor of a PD matrix always is); otherwise
// validation is skipped and behavior on invalid input is undefined.
func NewCholesky(factor *tensor.Tensor, validate bool) (*Cholesky, error) {
	batch, k, err := scaleDims(factor, "cholesky factor")
	if err != nil {
		return nil, err
	}
	if validate {
		diag := tensor.DiagPart(factor).Data()
		for i, v := range diag {
			if !(v > 0) {
				return nil, fmt.Errorf("cholesky factor must have a strictly positive diagonal, got %v at batch member %d, entry %d",
					v, i/k, i%k)
			}
		}
	}
	return &Cholesky{factor: factor, batch: batch, k: k}, nil
}

// Dimension returns k.
func (c *Cholesky) Dimension() int { return c.k }

// BatchShape returns the leading batch dimensions.
func (c *Cholesky) BatchShape() tensor.Shape { return c.batch }

// ToDense materializes V = L·Lᵗ.
func (c *Cholesky) ToDense() *tensor.Tensor {
	l := tensor.TriLower(c.factor)
	return tensor.MatMulT(l, l)
}

// SqrtToDense returns the lower triangle of the wrapped factor.
func (c *Cholesky) SqrtToDense() (*tensor.Tensor, error) {
	return tensor.TriLower(c.factor), nil
}

// SqrtSolve solves L·Y = X.
func (c *Cholesky) SqrtSolve(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkRHS(c.batch, c.k, x, "SqrtSolve"); err != nil {
		return nil, err
	}
	return tensor.TriSolveLower(c.factor, x)
}

// SqrtMatmul computes L·X.
func (c *Cholesky) SqrtMatmul(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkRHS(c.batch, c.k, x, "SqrtMatmul"); err != nil {
		return nil, err
	}
	return tensor.MatMul(tensor.TriLower(c.factor), x), nil
}

// LogDet returns log det V per batch member.
func (c *Cholesky) LogDet() (*tensor.Tensor, error) {
	half, err := c.SqrtLogDet()
	if err != nil {
		return nil, err
	}
	return half.Scale(2), nil
}

// SqrtLogDet returns log det L per batch member.
func (c *Cholesky) SqrtLogDet() (*tensor.Tensor, error) {
	return sqrtLogDet(c.factor), nil
}
