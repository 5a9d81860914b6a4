package cpu

import (
	"fmt"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// binary applies f elementwise over x and y with broadcasting.
//
// The fast path handles equal shapes with a flat loop. The broadcast path
// walks the output index space and maps each output coordinate back to the
// (possibly size-1) source coordinates.
func (b *Backend) binary(x, y *tensor.RawTensor, f func(a, c float32) float32) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()

	if xs.Equal(ys) {
		out := mustRaw(xs)
		xd, yd, od := x.Data(), y.Data(), out.Data()
		for i := range od {
			od[i] = f(xd[i], yd[i])
		}
		return out
	}

	outShape, _, err := tensor.BroadcastShapes(xs, ys)
	if err != nil {
		panic(fmt.Sprintf("binary op: %v", err))
	}
	out := mustRaw(outShape)

	xd, yd, od := x.Data(), y.Data(), out.Data()
	outStrides := outShape.ComputeStrides()
	xIdx := broadcastIndexer(xs, outShape, outStrides)
	yIdx := broadcastIndexer(ys, outShape, outStrides)

	for i := range od {
		od[i] = f(xd[xIdx(i)], yd[yIdx(i)])
	}
	return out
}

// broadcastIndexer returns a function mapping a flat output index to the
// flat index in a source tensor of shape src broadcast to shape out.
func broadcastIndexer(src, out tensor.Shape, outStrides []int) func(int) int {
	srcStrides := src.ComputeStrides()
	offset := len(out) - len(src)

	// Effective stride per output axis: 0 where src broadcasts (size 1 or
	// missing axis), the real stride otherwise.
	eff := make([]int, len(out))
	for d := range out {
		sd := d - offset
		if sd < 0 || src[sd] == 1 {
			eff[d] = 0
			continue
		}
		eff[d] = srcStrides[sd]
	}

	return func(flat int) int {
		idx := 0
		rem := flat
		for d := range out {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			idx += coord * eff[d]
		}
		return idx
	}
}
