// Package linop provides the scale-operator abstraction: matrix-free
// access to a batch of symmetric positive-definite matrices through
// their square-root (Cholesky) factor.
//
// Two implementations exist. Dense wraps a raw PD matrix and derives its
// factor once, on first use; Cholesky wraps a caller-supplied
// lower-triangular factor directly. Every consumer works against the
// ScaleOperator interface and cannot tell the two apart.
package linop

import (
	"fmt"

	"github.com/born-ml/wishart/internal/tensor"
)

// ScaleOperator is matrix-free access to a batch of k×k symmetric
// positive-definite matrices V = L·Lᵗ.
//
// Methods taking a right-hand side x expect shape [batch..., k, m] with
// batch dimensions identical to BatchShape; m may exceed k (the batch-op
// protocol flattens samples into trailing columns).
type ScaleOperator interface {
	// Dimension returns k, the order of each matrix in the batch.
	Dimension() int

	// BatchShape returns the leading dimensions indexing the batch.
	// Empty for a single matrix.
	BatchShape() tensor.Shape

	// ToDense materializes the full PD matrices, shape [batch..., k, k].
	ToDense() *tensor.Tensor

	// SqrtToDense materializes the lower-triangular factor L.
	SqrtToDense() (*tensor.Tensor, error)

	// SqrtSolve solves L·Y = X for Y.
	SqrtSolve(x *tensor.Tensor) (*tensor.Tensor, error)

	// SqrtMatmul computes L·X.
	SqrtMatmul(x *tensor.Tensor) (*tensor.Tensor, error)

	// LogDet returns log det V per batch member, shape [batch...].
	// LogDet = 2·SqrtLogDet.
	LogDet() (*tensor.Tensor, error)

	// SqrtLogDet returns log det L per batch member.
	SqrtLogDet() (*tensor.Tensor, error)
}

// scaleDims validates that scale is a batch of square matrices and
// splits its shape.
func scaleDims(scale *tensor.Tensor, what string) (batch tensor.Shape, k int, err error) {
	s := scale.Shape()
	if len(s) < 2 {
		return nil, 0, fmt.Errorf("%s must have at least 2 dimensions, got shape %v", what, s)
	}
	if s[len(s)-1] != s[len(s)-2] {
		return nil, 0, fmt.Errorf("%s must be square in its trailing dimensions, got shape %v", what, s)
	}
	return s[:len(s)-2].Clone(), s[len(s)-1], nil
}

// checkRHS validates the right-hand side of a solve or multiply.
func checkRHS(batch tensor.Shape, k int, x *tensor.Tensor, op string) error {
	s := x.Shape()
	if len(s) != len(batch)+2 || !tensor.Shape(s[:len(batch)]).Equal(batch) || s[len(s)-2] != k {
		return fmt.Errorf("%s: operand shape %v does not match operator batch %v and dimension %d", op, s, batch, k)
	}
	return nil
}

// sqrtLogDet computes log det L from a lower-triangular factor.
func sqrtLogDet(factor *tensor.Tensor) *tensor.Tensor {
	return tensor.DiagPart(factor).Log().SumLast()
}
