// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the batched float64 arrays
// the wishart package consumes and produces.
//
// A Tensor of shape [b1, ..., bn, r, c] is a contiguous, row-major
// batch of r×c matrices. Batched linear algebra (Cholesky, triangular
// solve, matrix multiply) applies to the trailing two dimensions and is
// delegated per matrix to gonum.
//
// Example:
//
//	scale, _ := tensor.FromSlice([]float64{4, 2, 2, 3}, tensor.Shape{2, 2})
//	l, err := tensor.CholeskyLower(scale)
package tensor

import (
	"github.com/born-ml/wishart/internal/tensor"
)

// Shape represents the dimensions of a tensor. An empty Shape is a
// scalar.
type Shape = tensor.Shape

// Tensor is a contiguous, row-major batch of float64 values.
type Tensor = tensor.Tensor

// ErrNotPositiveDefinite is returned when a Cholesky factorization
// fails.
var ErrNotPositiveDefinite = tensor.ErrNotPositiveDefinite

// Creation functions

// Zeros creates a tensor of the given shape filled with zeros.
func Zeros(shape Shape) *Tensor { return tensor.Zeros(shape) }

// Full creates a tensor of the given shape filled with value.
func Full(shape Shape, value float64) *Tensor { return tensor.Full(shape, value) }

// Scalar creates a 0-D tensor holding a single value.
func Scalar(value float64) *Tensor { return tensor.Scalar(value) }

// Eye creates a batch of k×k identity matrices with the given leading
// batch shape. Eye(nil, k) is a single identity matrix.
func Eye(batch Shape, k int) *Tensor { return tensor.Eye(batch, k) }

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Elementwise binary operations with NumPy-style broadcasting

// Add returns a + b.
func Add(a, b *Tensor) *Tensor { return tensor.Add(a, b) }

// Sub returns a - b.
func Sub(a, b *Tensor) *Tensor { return tensor.Sub(a, b) }

// Mul returns the elementwise product a * b.
func Mul(a, b *Tensor) *Tensor { return tensor.Mul(a, b) }

// Batched linear algebra over the trailing two dimensions

// CholeskyLower computes the lower-triangular Cholesky factor of every
// trailing k×k matrix.
func CholeskyLower(x *Tensor) (*Tensor, error) { return tensor.CholeskyLower(x) }

// TriSolveLower solves L·Y = X for Y with lower-triangular L.
func TriSolveLower(l, x *Tensor) (*Tensor, error) { return tensor.TriSolveLower(l, x) }

// MatMul computes A·B over equally batched tensors.
func MatMul(a, b *Tensor) *Tensor { return tensor.MatMul(a, b) }

// MatMulT computes A·Bᵗ over equally batched tensors.
func MatMulT(a, b *Tensor) *Tensor { return tensor.MatMulT(a, b) }

// TriLower zeroes the strictly-upper triangle of every trailing square
// matrix.
func TriLower(x *Tensor) *Tensor { return tensor.TriLower(x) }

// DiagPart extracts the diagonals, mapping [batch..., k, k] to
// [batch..., k].
func DiagPart(x *Tensor) *Tensor { return tensor.DiagPart(x) }

// SetDiag replaces the diagonals with the values in d of shape
// [batch..., k].
func SetDiag(x, d *Tensor) *Tensor { return tensor.SetDiag(x, d) }

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
