// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package wishart implements the matrix Wishart distribution, the
// distribution of scatter matrices of multivariate normal samples and
// the conjugate prior for the precision matrix of a multivariate
// normal.
//
// A distribution is parameterized by degrees of freedom df ≥ k and a
// k×k symmetric positive-definite scale matrix V, supplied either
// densely (NewFull) or as a lower-triangular Cholesky factor
// (NewCholesky). Both constructors accept batched parameters: a scale
// of shape [batch..., k, k] with a scalar or [batch...]-shaped df
// defines one independent distribution per batch member, and every
// method vectorizes over the batch.
//
// Basic usage:
//
//	scale, _ := tensor.FromSlice([]float64{4, 2, 2, 10}, tensor.Shape{2, 2})
//	w, err := wishart.NewFull(tensor.Scalar(5), scale, wishart.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	draws, _ := w.SampleN(1000, 42)      // [1000, 2, 2], Bartlett sampler
//	lp, _ := w.LogProb(draws)            // [1000]
//	mean, _ := w.Mean()                  // df·V
//	h, _ := w.Entropy()                  // nats
//
// Options.CholeskyIO switches the matrix I/O convention: observations
// are consumed and samples produced as lower-triangular factors, which
// removes an O(k³) factorization from every LogProb call.
package wishart
