// Package wishart implements the matrix Wishart distribution on
// symmetric positive-definite matrices, parameterized by degrees of
// freedom df and a scale operator over a batch of k×k PD matrices.
//
// The density is
//
//	f(X) = det(X)^(0.5·(df−k−1)) · exp(−0.5·tr[V⁻¹·X]) / B(V, df)
//
// with df ≥ k and normalizing constant
//
//	B(V, df) = 2^(0.5·df·k) · det(V)^(0.5·df) · Γ_k(0.5·df).
//
// Every algorithm works through the linop.ScaleOperator interface, so a
// distribution built from a dense scale and one built from that scale's
// Cholesky factor are algebraically interchangeable, and cheaper
// operator representations make sampling and density cheaper
// automatically.
package wishart

import (
	"errors"
	"fmt"

	"github.com/born-ml/wishart/internal/linop"
	"github.com/born-ml/wishart/internal/tensor"
)

// Sentinel errors. Wrapping errors carry call context; match with
// errors.Is.
var (
	// ErrNotImplemented is returned by CDF and LogCDF, which have no
	// closed form.
	ErrNotImplemented = errors.New("not implemented")

	// ErrStdCholeskyIO is returned by Std when the distribution is in
	// Cholesky I/O mode. Factoring an already factored result is
	// ill-defined.
	ErrStdCholeskyIO = errors.New("std is undefined when inputs/outputs are Cholesky factors")

	// ErrNaNStatsDisallowed is returned when a statistic is undefined
	// for some batch member and AllowNaNStats is false.
	ErrNaNStatsDisallowed = errors.New("statistic undefined for some batch members")

	// ErrDegreesOfFreedom is returned when df < k.
	ErrDegreesOfFreedom = errors.New("degrees of freedom cannot be less than the scale matrix dimension")
)

// Options configures a Wishart distribution. The zero value gives dense
// matrix I/O, strict NaN policy, and eager argument validation.
type Options struct {
	// CholeskyIO treats every matrix-valued input and output at the API
	// boundary as a lower-triangular Cholesky factor: LogProb takes a
	// factored observation, SampleN returns factored draws, Mean and
	// Mode return square-root-scaled factors. Skipping the observation
	// factorization saves an O(batch·k³) step per LogProb call.
	CholeskyIO bool

	// AllowNaNStats makes undefined statistics (Mode when df ≤ k)
	// return NaN for the affected batch members instead of failing.
	AllowNaNStats bool

	// SkipValidation disables argument checking at construction. If the
	// arguments are actually invalid, behavior is undefined.
	SkipValidation bool
}

// Wishart is a batch of matrix Wishart distributions. It owns its scale
// operator exclusively but only references the data the operator wraps.
// All methods are pure: no state is retained across calls.
type Wishart struct {
	df            *tensor.Tensor
	op            linop.ScaleOperator
	choleskyIO    bool
	allowNaNStats bool
	validateArgs  bool
}

// New constructs a Wishart distribution from degrees of freedom and a
// scale operator. df must be a scalar tensor or have exactly the
// operator's batch shape, and every entry must satisfy df ≥ k (checked
// unless Options.SkipValidation is set).
func New(df *tensor.Tensor, op linop.ScaleOperator, opts Options) (*Wishart, error) {
	if dfShape := df.Shape(); len(dfShape) != 0 && !dfShape.Equal(op.BatchShape()) {
		return nil, fmt.Errorf("df shape %v must be scalar or equal the operator batch shape %v",
			dfShape, op.BatchShape())
	}

	w := &Wishart{
		df:            df,
		op:            op,
		choleskyIO:    opts.CholeskyIO,
		allowNaNStats: opts.AllowNaNStats,
		validateArgs:  !opts.SkipValidation,
	}

	if w.validateArgs {
		k := float64(op.Dimension())
		for i, v := range df.Data() {
			if v < k {
				return nil, fmt.Errorf("df = %v (batch member %d) with scale dimension %v: %w",
					v, i, k, ErrDegreesOfFreedom)
			}
		}
	}
	return w, nil
}

// DF returns the degrees of freedom, shape [] or [batch...].
func (w *Wishart) DF() *tensor.Tensor { return w.df }

// Dimension returns k, the order of the event matrices.
func (w *Wishart) Dimension() int { return w.op.Dimension() }

// BatchShape returns the leading dimensions indexing independent
// distribution instances.
func (w *Wishart) BatchShape() tensor.Shape { return w.op.BatchShape() }

// EventShape returns [k, k].
func (w *Wishart) EventShape() tensor.Shape {
	k := w.op.Dimension()
	return tensor.Shape{k, k}
}

// ScaleOperator returns the scale matrix as an operator.
func (w *Wishart) ScaleOperator() linop.ScaleOperator { return w.op }

// Scale returns the scale matrix: dense, or its square-root factor when
// the distribution is in Cholesky I/O mode.
func (w *Wishart) Scale() (*tensor.Tensor, error) {
	if w.choleskyIO {
		return w.op.SqrtToDense()
	}
	return w.op.ToDense(), nil
}

// CholeskyIO reports whether matrix inputs/outputs are Cholesky factors.
func (w *Wishart) CholeskyIO() bool { return w.choleskyIO }

// AllowNaNStats reports the policy for undefined statistics.
func (w *Wishart) AllowNaNStats() bool { return w.allowNaNStats }

// ValidateArgs reports whether argument validation is enabled.
func (w *Wishart) ValidateArgs() bool { return w.validateArgs }

// CDF has no closed form for the Wishart distribution.
func (w *Wishart) CDF(*tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("cdf: %w", ErrNotImplemented)
}

// LogCDF has no closed form for the Wishart distribution.
func (w *Wishart) LogCDF(*tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("log_cdf: %w", ErrNotImplemented)
}

// String returns a human-readable description of the distribution.
func (w *Wishart) String() string {
	return fmt.Sprintf("Wishart(dimension=%d, batch=%v, choleskyIO=%v)",
		w.Dimension(), w.BatchShape(), w.choleskyIO)
}

// mulCoeff multiplies a per-batch coefficient c (shape [] or [batch...])
// into a batch of matrices m (shape [batch..., r, s]).
func mulCoeff(c, m *tensor.Tensor) *tensor.Tensor {
	if c.Rank() == 0 {
		return tensor.Mul(c, m)
	}
	return tensor.Mul(c.Reshape(c.Shape().Concat(1, 1)...), m)
}
