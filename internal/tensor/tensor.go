// Package tensor provides contiguous batched float64 arrays and the
// batched linear-algebra primitives (Cholesky, triangular solve, matrix
// multiply) the distribution code is written against. Per-matrix work is
// delegated to gonum/mat; this package only owns the batch bookkeeping.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a contiguous, row-major batch of float64 values.
//
// The trailing two dimensions are conventionally matrix dimensions, so a
// Tensor of shape [b1, ..., bn, r, c] is a batch of b1·…·bn matrices,
// each stored as a contiguous r×c block. That layout is what lets the
// batched linear algebra in this package hand each block to gonum
// without copying.
type Tensor struct {
	shape Shape
	data  []float64
}

// Zeros creates a tensor of the given shape filled with zeros.
// Panics if the shape is invalid.
func Zeros(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}
}

// Full creates a tensor of the given shape filled with value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a 0-D tensor holding a single value.
func Scalar(value float64) *Tensor {
	return &Tensor{shape: Shape{}, data: []float64{value}}
}

// Eye creates a batch of k×k identity matrices with the given leading
// batch shape. Eye(nil, k) is a single identity matrix of shape [k, k].
func Eye(batch Shape, k int) *Tensor {
	t := Zeros(batch.Concat(k, k))
	for b := 0; b < batch.NumElements(); b++ {
		block := t.data[b*k*k : (b+1)*k*k]
		for i := 0; i < k; i++ {
			block[i*k+i] = 1
		}
	}
	return t
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := Zeros(shape)
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape. The caller must not mutate it.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the backing slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Item returns the value of a 0-D or single-element tensor.
// Panics otherwise.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	strides := t.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	out := Zeros(t.shape)
	copy(out.data, t.data)
	return out
}

// Reshape returns a view with a new shape sharing the same backing data.
// At most one dimension may be -1, in which case it is inferred.
// Panics if the element counts do not match.
func (t *Tensor) Reshape(dims ...int) *Tensor {
	shape := make(Shape, len(dims))
	copy(shape, dims)

	infer := -1
	known := 1
	for i, d := range shape {
		switch {
		case d == -1 && infer == -1:
			infer = i
		case d == -1:
			panic(fmt.Sprintf("reshape %v: at most one dimension may be -1", dims))
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || len(t.data)%known != 0 {
			panic(fmt.Sprintf("cannot reshape %d elements into %v", len(t.data), dims))
		}
		shape[infer] = len(t.data) / known
	} else if known != len(t.data) {
		panic(fmt.Sprintf("cannot reshape %d elements into %v", len(t.data), dims))
	}

	return &Tensor{shape: shape, data: t.data}
}

// Transpose returns a new tensor with dimensions permuted so that output
// dimension i is input dimension perm[i]. The result is freshly
// allocated and contiguous.
func (t *Tensor) Transpose(perm ...int) *Tensor {
	n := len(t.shape)
	if len(perm) != n {
		panic(fmt.Sprintf("transpose: permutation %v does not match rank %d", perm, n))
	}
	seen := make([]bool, n)
	outShape := make(Shape, n)
	for i, p := range perm {
		if p < 0 || p >= n || seen[p] {
			panic(fmt.Sprintf("transpose: invalid permutation %v", perm))
		}
		seen[p] = true
		outShape[i] = t.shape[p]
	}

	out := Zeros(outShape)
	if n == 0 {
		out.data[0] = t.data[0]
		return out
	}

	inStrides := t.shape.ComputeStrides()
	idx := make([]int, n)
	for o := range out.data {
		src := 0
		for i := 0; i < n; i++ {
			src += idx[i] * inStrides[perm[i]]
		}
		out.data[o] = t.data[src]

		// Advance the multi-index in output order.
		for i := n - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < outShape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tensor%v", t.shape)
	if len(t.data) <= 8 {
		fmt.Fprintf(&b, "%v", t.data)
	}
	return b.String()
}
