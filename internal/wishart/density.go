package wishart

import (
	"fmt"

	"github.com/born-ml/wishart/internal/tensor"
)

// LogProb evaluates the log density at x.
//
// x has shape [sample..., batch..., k, k]: a batch of PD matrices, or
// their lower-triangular Cholesky factors in Cholesky I/O mode (which
// skips the O(batch·k³) factorization entirely — the main performance
// argument for factored I/O). The result has shape [sample..., batch...].
func (w *Wishart) LogProb(x *tensor.Tensor) (*tensor.Tensor, error) {
	k := w.Dimension()
	batch := w.BatchShape()

	s := x.Shape()
	if len(s) < len(batch)+2 {
		return nil, fmt.Errorf("observation shape %v has too few dimensions for batch %v and event [%d, %d]",
			s, batch, k, k)
	}
	if s[len(s)-2] != k || s[len(s)-1] != k {
		return nil, fmt.Errorf("observation shape %v does not end in the event shape [%d, %d]", s, k, k)
	}
	sampleDims := len(s) - len(batch) - 2
	if !s[sampleDims : len(s)-2].Equal(batch) {
		return nil, fmt.Errorf("observation shape %v does not carry the batch shape %v before its event dimensions",
			s, batch)
	}
	sampleShape := s[:sampleDims].Clone()

	// Triangular square root of the observation.
	var xSqrt *tensor.Tensor
	if w.choleskyIO {
		xSqrt = tensor.TriLower(x)
	} else {
		var err error
		if xSqrt, err = tensor.CholeskyLower(x); err != nil {
			return nil, fmt.Errorf("observation: %w", err)
		}
	}

	// S⁻¹·x_sqrt through the operator, batched over samples.
	y, err := w.op.SqrtSolve(makeBatchOpReady(xSqrt, sampleDims))
	if err != nil {
		return nil, fmt.Errorf("log_prob: %w", err)
	}
	z := undoBatchOpReady(y, sampleShape, k)

	// tr[V⁻¹·X] = Σ_{ik} (S⁻¹·L)²_{ik} for X = L·Lᵗ, V = S·Sᵗ, by the
	// cyclic permutation property of the trace.
	traceScaleInvX := z.Square().SumLast2()

	// 0.5·log det X = Σ log diag(L).
	halfLogDetX := tensor.DiagPart(xSqrt).Log().SumLast()

	logZ, err := w.LogNormalizingConstant()
	if err != nil {
		return nil, fmt.Errorf("log_prob: %w", err)
	}

	coeff := w.df.AddScalar(-float64(k) - 1)
	lp := tensor.Sub(tensor.Sub(tensor.Mul(coeff, halfLogDetX), traceScaleInvX.Scale(0.5)), logZ)
	return lp, nil
}

// Prob is the elementwise exponential of LogProb.
func (w *Wishart) Prob(x *tensor.Tensor) (*tensor.Tensor, error) {
	lp, err := w.LogProb(x)
	if err != nil {
		return nil, err
	}
	return lp.Exp(), nil
}
