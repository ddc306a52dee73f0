// Package special implements the multivariate gamma helpers used by the
// Wishart normalizing constant and entropy. The scalar special functions
// come from the standard library (Lgamma) and gonum (Digamma).
package special

import (
	"math"

	"gonum.org/v1/gonum/mathext"

	"github.com/born-ml/wishart/internal/tensor"
)

// GammaSequence returns the arithmetic sequence a - 0.5·i for
// i = 0..p-1, broadcast over the shape of a. The result has shape
// a.Shape() + [p].
func GammaSequence(a *tensor.Tensor, p int) *tensor.Tensor {
	out := tensor.Zeros(a.Shape().Concat(p))
	data := out.Data()
	for b, v := range a.Data() {
		for i := 0; i < p; i++ {
			data[b*p+i] = v - 0.5*float64(i)
		}
	}
	return out
}

// MultiLogGamma computes the log multivariate gamma function
// log Γ_p(a), elementwise over a.
//
//	log Γ_p(a) = 0.25·p·(p−1)·log π + Σ_i log Γ(a − 0.5·i)
func MultiLogGamma(a *tensor.Tensor, p int) *tensor.Tensor {
	seq := GammaSequence(a, p)
	data := seq.Data()
	for i, v := range data {
		lg, _ := math.Lgamma(v)
		data[i] = lg
	}
	return seq.SumLast().AddScalar(0.25 * float64(p) * float64(p-1) * math.Log(math.Pi))
}

// MultiDigamma computes the multivariate digamma function ψ_p(a),
// elementwise over a.
//
//	ψ_p(a) = Σ_i ψ(a − 0.5·i)
func MultiDigamma(a *tensor.Tensor, p int) *tensor.Tensor {
	seq := GammaSequence(a, p)
	data := seq.Data()
	for i, v := range data {
		data[i] = mathext.Digamma(v)
	}
	return seq.SumLast()
}
