package wishart

import (
	"fmt"
	"math"

	"github.com/born-ml/wishart/internal/special"
	"github.com/born-ml/wishart/internal/tensor"
)

// Mean returns E[X] = df·V, shape [batch..., k, k]. In Cholesky I/O mode
// the square-root-scaled factor √df·L is returned instead.
func (w *Wishart) Mean() (*tensor.Tensor, error) {
	if w.choleskyIO {
		l, err := w.op.SqrtToDense()
		if err != nil {
			return nil, fmt.Errorf("mean: %w", err)
		}
		return mulCoeff(w.df.Sqrt(), l), nil
	}
	return mulCoeff(w.df, w.op.ToDense()), nil
}

// Mode returns (df−k−1)·V. The mode is undefined where df − k − 1 < 0:
// those batch members are NaN when AllowNaNStats is set, otherwise Mode
// fails with ErrNaNStatsDisallowed.
func (w *Wishart) Mode() (*tensor.Tensor, error) {
	k := float64(w.Dimension())
	s := w.df.AddScalar(-k - 1)

	undefined := false
	data := s.Data()
	for i, v := range data {
		if v < 0 {
			undefined = true
			data[i] = math.NaN()
		}
	}
	if undefined && !w.allowNaNStats {
		return nil, fmt.Errorf("mode requires df > dimension + 1 for every batch member: %w", ErrNaNStatsDisallowed)
	}

	if w.choleskyIO {
		l, err := w.op.SqrtToDense()
		if err != nil {
			return nil, fmt.Errorf("mode: %w", err)
		}
		return mulCoeff(s.Sqrt(), l), nil
	}
	return mulCoeff(s, w.op.ToDense()), nil
}

// Variance returns the entrywise variance Var[X_ij] = df·(V_ij² +
// V_ii·V_jj) shaped as a k×k matrix per batch member. This is the
// diagonal block of the true covariance over vec(X), not the full
// k²×k² covariance. In Cholesky I/O mode the Cholesky factor of the
// variance matrix is returned.
func (w *Wishart) Variance() (*tensor.Tensor, error) {
	x := mulCoeff(w.df.Sqrt(), w.op.ToDense())
	d := tensor.DiagPart(x)
	dCol := d.Reshape(d.Shape().Concat(1)...)
	v := tensor.Add(x.Square(), tensor.MatMulT(dCol, dCol))

	if w.choleskyIO {
		f, err := tensor.CholeskyLower(v)
		if err != nil {
			return nil, fmt.Errorf("variance: %w", err)
		}
		return f, nil
	}
	return v, nil
}

// Std returns the Cholesky factor of the variance matrix. It always
// fails in Cholesky I/O mode: factoring a result that is itself
// requested in factored form is a contract error.
func (w *Wishart) Std() (*tensor.Tensor, error) {
	if w.choleskyIO {
		return nil, ErrStdCholeskyIO
	}
	v, err := w.Variance()
	if err != nil {
		return nil, err
	}
	f, err := tensor.CholeskyLower(v)
	if err != nil {
		return nil, fmt.Errorf("std: %w", err)
	}
	return f, nil
}

// Entropy returns the differential entropy in nats, shape [batch...].
func (w *Wishart) Entropy() (*tensor.Tensor, error) {
	dim := w.Dimension()
	k := float64(dim)
	halfDP1 := 0.5 * (k + 1)
	halfDF := w.df.Scale(0.5)

	logDet, err := w.op.LogDet()
	if err != nil {
		return nil, fmt.Errorf("entropy: %w", err)
	}

	out := tensor.Add(w.df.Scale(0.5*k).AddScalar(k*halfDP1*math.Ln2), logDet.Scale(halfDP1))
	out = tensor.Add(out, special.MultiLogGamma(halfDF, dim))
	coeff := halfDF.Scale(-1).AddScalar(halfDP1)
	return tensor.Add(out, tensor.Mul(coeff, special.MultiDigamma(halfDF, dim))), nil
}

// MeanLogDet returns E[log det X] = ψ_k(0.5·df) + k·log 2 + log det V,
// shape [batch...].
func (w *Wishart) MeanLogDet() (*tensor.Tensor, error) {
	dim := w.Dimension()
	logDet, err := w.op.LogDet()
	if err != nil {
		return nil, fmt.Errorf("mean_log_det: %w", err)
	}
	mdg := special.MultiDigamma(w.df.Scale(0.5), dim)
	return tensor.Add(mdg.AddScalar(float64(dim)*math.Ln2), logDet), nil
}

// LogNormalizingConstant returns log B(V, df) =
// df·log det L + 0.5·df·k·log 2 + log Γ_k(0.5·df), shape [batch...].
func (w *Wishart) LogNormalizingConstant() (*tensor.Tensor, error) {
	dim := w.Dimension()
	sqrtLogDet, err := w.op.SqrtLogDet()
	if err != nil {
		return nil, fmt.Errorf("log_normalizing_constant: %w", err)
	}
	out := tensor.Add(tensor.Mul(w.df, sqrtLogDet), w.df.Scale(0.5*float64(dim)*math.Ln2))
	return tensor.Add(out, special.MultiLogGamma(w.df.Scale(0.5), dim)), nil
}
