// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wishart

import (
	"github.com/born-ml/wishart/internal/linop"
	wishart "github.com/born-ml/wishart/internal/wishart"
	"github.com/born-ml/wishart/tensor"
)

// Wishart is a batch of matrix Wishart distributions over symmetric
// positive-definite k×k matrices.
type Wishart = wishart.Wishart

// Options configures a Wishart distribution. The zero value gives dense
// matrix I/O, strict NaN policy, and eager argument validation.
type Options = wishart.Options

// ScaleOperator is matrix-free access to a batch of symmetric
// positive-definite scale matrices through their square-root factor.
// Implementations for dense matrices and pre-factored Cholesky input
// are provided by NewDenseOperator and NewCholeskyOperator.
type ScaleOperator = linop.ScaleOperator

// Sentinel errors, matchable with errors.Is.
var (
	// ErrNotImplemented is returned by CDF and LogCDF.
	ErrNotImplemented = wishart.ErrNotImplemented

	// ErrStdCholeskyIO is returned by Std under Cholesky I/O.
	ErrStdCholeskyIO = wishart.ErrStdCholeskyIO

	// ErrNaNStatsDisallowed is returned when a statistic is undefined
	// for some batch member and Options.AllowNaNStats is false.
	ErrNaNStatsDisallowed = wishart.ErrNaNStatsDisallowed

	// ErrDegreesOfFreedom is returned when df < k.
	ErrDegreesOfFreedom = wishart.ErrDegreesOfFreedom
)

// New constructs a Wishart distribution from degrees of freedom and a
// scale operator. df must be a scalar tensor or match the operator's
// batch shape, with every entry ≥ k.
func New(df *tensor.Tensor, op ScaleOperator, opts Options) (*Wishart, error) {
	return wishart.New(df, op, opts)
}

// NewFull constructs a Wishart distribution from a dense symmetric
// positive-definite scale of shape [batch..., k, k]. The scale's
// Cholesky factor is derived internally; positive definiteness is
// validated by that factorization unless Options.SkipValidation is set.
//
// Example:
//
//	scale, _ := tensor.FromSlice([]float64{4, 2, 2, 3}, tensor.Shape{2, 2})
//	dist, err := wishart.NewFull(tensor.Scalar(5), scale, wishart.Options{})
//	lp, err := dist.LogProb(observation)
func NewFull(df, scale *tensor.Tensor, opts Options) (*Wishart, error) {
	op, err := linop.NewDense(scale, !opts.SkipValidation)
	if err != nil {
		return nil, err
	}
	return wishart.New(df, op, opts)
}

// NewCholesky constructs a Wishart distribution from the
// lower-triangular Cholesky factor of the scale, shape [batch..., k, k].
// This skips an O(batch·k³) factorization in construction and another
// per LogProb call relative to NewFull.
//
// Example:
//
//	l, _ := tensor.FromSlice([]float64{2, 0, 1, 3}, tensor.Shape{2, 2})
//	dist, err := wishart.NewCholesky(tensor.Scalar(5), l, wishart.Options{})
func NewCholesky(df, scale *tensor.Tensor, opts Options) (*Wishart, error) {
	op, err := linop.NewCholesky(scale, !opts.SkipValidation)
	if err != nil {
		return nil, err
	}
	return wishart.New(df, op, opts)
}

// NewDenseOperator wraps a batch of dense symmetric positive-definite
// matrices as a ScaleOperator.
func NewDenseOperator(scale *tensor.Tensor, validate bool) (ScaleOperator, error) {
	return linop.NewDense(scale, validate)
}

// NewCholeskyOperator wraps a batch of lower-triangular Cholesky
// factors as a ScaleOperator.
func NewCholeskyOperator(factor *tensor.Tensor, validate bool) (ScaleOperator, error) {
	return linop.NewCholesky(factor, validate)
}
