package wishart

import "github.com/born-ml/wishart/internal/tensor"

// The scale operator's solve and multiply are batched over its leading
// dimensions and apply to the trailing two. To additionally vary over
// sample dimensions, a [sample..., batch..., rows, cols] tensor is
// rearranged so its leading dimensions exactly match the operator's
// batch shape and all samples ride along as extra trailing columns:
//
//	[sample..., batch..., rows, cols]
//	  → transpose → [batch..., rows, cols, sample...]
//	  → reshape   → [batch..., rows, cols·prod(sample)]
//
// undoBatchOpReady inverts the round trip exactly. Both sampling and
// density go through this one pair of functions; inlining the
// transposes at each call site is how reshape drift happens.

// makeBatchOpReady flattens the leading sampleDims dimensions of x into
// the trailing columns, leaving the operator's batch shape in front.
func makeBatchOpReady(x *tensor.Tensor, sampleDims int) *tensor.Tensor {
	ndims := x.Rank()
	perm := make([]int, 0, ndims)
	for i := sampleDims; i < ndims; i++ {
		perm = append(perm, i)
	}
	for i := 0; i < sampleDims; i++ {
		perm = append(perm, i)
	}

	batch := x.Shape()[sampleDims : ndims-2].Clone()
	rows := x.Shape()[ndims-2]
	return x.Transpose(perm...).Reshape(batch.Concat(rows, -1)...)
}

// undoBatchOpReady restores a [batch..., rows, cols·prod(sample)] tensor
// produced by makeBatchOpReady (and subsequently solved or multiplied)
// to [sample..., batch..., rows, cols].
func undoBatchOpReady(x *tensor.Tensor, sampleShape tensor.Shape, cols int) *tensor.Tensor {
	s := x.Shape()
	batch := s[:len(s)-2].Clone()
	rows := s[len(s)-2]

	t := x.Reshape(batch.Concat(rows, cols).Concat(sampleShape...)...)

	ndims := t.Rank()
	sd := len(sampleShape)
	perm := make([]int, 0, ndims)
	for i := ndims - sd; i < ndims; i++ {
		perm = append(perm, i)
	}
	for i := 0; i < ndims-sd; i++ {
		perm = append(perm, i)
	}
	return t.Transpose(perm...)
}
