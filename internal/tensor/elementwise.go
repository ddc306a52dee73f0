package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// mapElems applies f to every element, returning a fresh tensor.
func (t *Tensor) mapElems(f func(float64) float64) *Tensor {
	out := Zeros(t.shape)
	for i, v := range t.data {
		out.data[i] = f(v)
	}
	return out
}

// Log returns the elementwise natural logarithm.
func (t *Tensor) Log() *Tensor { return t.mapElems(math.Log) }

// Sqrt returns the elementwise square root.
func (t *Tensor) Sqrt() *Tensor { return t.mapElems(math.Sqrt) }

// Exp returns the elementwise exponential.
func (t *Tensor) Exp() *Tensor { return t.mapElems(math.Exp) }

// Square returns the elementwise square.
func (t *Tensor) Square() *Tensor {
	return t.mapElems(func(v float64) float64 { return v * v })
}

// Scale returns the tensor multiplied by a scalar.
func (t *Tensor) Scale(c float64) *Tensor {
	return t.mapElems(func(v float64) float64 { return c * v })
}

// AddScalar returns the tensor with a scalar added to every element.
func (t *Tensor) AddScalar(c float64) *Tensor {
	return t.mapElems(func(v float64) float64 { return v + c })
}

// SumLast sums over the last dimension, dropping it.
// A 1-D input produces a scalar tensor.
func (t *Tensor) SumLast() *Tensor {
	if len(t.shape) == 0 {
		panic("SumLast: scalar tensor has no dimension to reduce")
	}
	d := t.shape[len(t.shape)-1]
	out := Zeros(t.shape[:len(t.shape)-1].Clone())
	for i := range out.data {
		out.data[i] = floats.Sum(t.data[i*d : (i+1)*d])
	}
	return out
}

// SumLast2 sums over the last two dimensions, dropping both.
func (t *Tensor) SumLast2() *Tensor {
	if len(t.shape) < 2 {
		panic("SumLast2: tensor must have at least 2 dimensions")
	}
	d := t.shape[len(t.shape)-1] * t.shape[len(t.shape)-2]
	out := Zeros(t.shape[:len(t.shape)-2].Clone())
	for i := range out.data {
		out.data[i] = floats.Sum(t.data[i*d : (i+1)*d])
	}
	return out
}

// Add returns a + b with NumPy-style broadcasting.
// Panics if the shapes are not broadcast-compatible.
func Add(a, b *Tensor) *Tensor {
	return zipBroadcast(a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b with NumPy-style broadcasting.
func Sub(a, b *Tensor) *Tensor {
	return zipBroadcast(a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns the elementwise product a * b with NumPy-style broadcasting.
func Mul(a, b *Tensor) *Tensor {
	return zipBroadcast(a, b, func(x, y float64) float64 { return x * y })
}

func zipBroadcast(a, b *Tensor, f func(x, y float64) float64) *Tensor {
	if a.shape.Equal(b.shape) {
		out := Zeros(a.shape)
		for i := range out.data {
			out.data[i] = f(a.data[i], b.data[i])
		}
		return out
	}

	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		panic(err)
	}
	out := Zeros(shape)

	n := len(shape)
	aStrides := broadcastStrides(a.shape, shape)
	bStrides := broadcastStrides(b.shape, shape)
	idx := make([]int, n)
	for o := range out.data {
		ai, bi := 0, 0
		for i := 0; i < n; i++ {
			ai += idx[i] * aStrides[i]
			bi += idx[i] * bStrides[i]
		}
		out.data[o] = f(a.data[ai], b.data[bi])

		for i := n - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out
}

// broadcastStrides returns strides for indexing t as if it had the
// broadcast shape: missing leading dimensions and size-1 dimensions get
// stride 0 so the same element is reused.
func broadcastStrides(from, to Shape) []int {
	real := from.ComputeStrides()
	out := make([]int, len(to))
	offset := len(to) - len(from)
	for i := range to {
		j := i - offset
		if j < 0 || from[j] == 1 {
			out[i] = 0
		} else {
			out[i] = real[j]
		}
	}
	return out
}
