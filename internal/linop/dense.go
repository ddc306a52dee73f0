package linop

import (
	"fmt"
	"sync"

	"github.com/born-ml/wishart/internal/tensor"
)

// Dense is a ScaleOperator backed by the raw PD matrices themselves.
// The Cholesky factor is derived at most once; positive definiteness is
// proven by that factorization succeeding.
//
// The wrapped tensor is referenced, not copied. Callers must not mutate
// it while the operator is in use.
type Dense struct {
	scale *tensor.Tensor
	batch tensor.Shape
	k     int

	once    sync.Once
	chol    *tensor.Tensor
	cholErr error
}

var _ ScaleOperator = (*Dense)(nil)

// NewDense wraps a batch of symmetric positive-definite matrices of
// shape [batch..., k, k]. When validate is true the factorization runs
// immediately, so an indefinite scale is rejected here; otherwise it is
// deferred to first use and behavior on invalid input is undefined.
func NewDense(scale *tensor.Tensor, validate bool) (*Dense, error) {
	batch, k, err := scaleDims(scale, "scale matrix")
	if err != nil {
		return nil, err
	}
	d := &Dense{scale: scale, batch: batch, k: k}
	if validate {
		if _, err := d.factor(); err != nil {
			return nil, fmt.Errorf("scale matrix: %w", err)
		}
	}
	return d, nil
}

func (d *Dense) factor() (*tensor.Tensor, error) {
	d.once.Do(func() {
		d.chol, d.cholErr = tensor.CholeskyLower(d.scale)
	})
	return d.chol, d.cholErr
}

// Dimension returns k.
func (d *Dense) Dimension() int { return d.k }

// BatchShape returns the leading batch dimensions.
func (d *Dense) BatchShape() tensor.Shape { return d.batch }

// ToDense returns the wrapped PD matrices.
func (d *Dense) ToDense() *tensor.Tensor { return d.scale }

// SqrtToDense returns the lower-triangular Cholesky factor.
func (d *Dense) SqrtToDense() (*tensor.Tensor, error) {
	return d.factor()
}

// SqrtSolve solves L·Y = X.
func (d *Dense) SqrtSolve(x *tensor.Tensor) (*tensor.Tensor, error) {
	l, err := d.factor()
	if err != nil {
		return nil, err
	}
	if err := checkRHS(d.batch, d.k, x, "SqrtSolve"); err != nil {
		return nil, err
	}
	return tensor.TriSolveLower(l, x)
}

// SqrtMatmul computes L·X.
func (d *Dense) SqrtMatmul(x *tensor.Tensor) (*tensor.Tensor, error) {
	l, err := d.factor()
	if err != nil {
		return nil, err
	}
	if err := checkRHS(d.batch, d.k, x, "SqrtMatmul"); err != nil {
		return nil, err
	}
	return tensor.MatMul(l, x), nil
}

// LogDet returns log det V per batch member.
func (d *Dense) LogDet() (*tensor.Tensor, error) {
	half, err := d.SqrtLogDet()
	if err != nil {
		return nil, err
	}
	return half.Scale(2), nil
}

// SqrtLogDet returns log det L per batch member.
func (d *Dense) SqrtLogDet() (*tensor.Tensor, error) {
	l, err := d.factor()
	if err != nil {
		return nil, err
	}
	return sqrtLogDet(l), nil
}
