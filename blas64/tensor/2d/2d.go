package tensor2d

import (
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

func NewZeros(rows, cols int) blas64.General {
	return blas64.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float64, rows*cols),
	}
}

func NewZerosLike(gen blas64.General) blas64.General {
	return NewZeros(gen.Rows, gen.Cols)
}

func NewRandNorm(rows, cols int, std float64, rng *rand.Rand) blas64.General {
	gen := NewZeros(rows, cols)
	for i := range gen.Data {
		gen.Data[i] = rng.NormFloat64() * std
	}
	return gen
}

func N(gen blas64.General) int {
	return gen.Rows * gen.Cols
}

func Clone(gen blas64.General) blas64.General {
	return blas64.General{
		Rows:   gen.Rows,
		Cols:   gen.Cols,
		Stride: gen.Stride,
		Data:   slices.Clone(gen.Data),
	}
}

func At(gen blas64.General, row, col int) int {
	return row*gen.Stride + col
}

func Row(gen blas64.General, row int) []float64 {
	offset := row * gen.Stride
	return gen.Data[offset : offset+gen.Cols]
}

func ToVector(gen blas64.General) blas64.Vector {
	return blas64.Vector{
		N:    N(gen),
		Inc:  1,
		Data: gen.Data,
	}
}

func Flatten(gen blas64.General) blas64.Vector {
	return blas64.Vector{
		N:    N(gen),
		Inc:  1,
		Data: slices.Clone(gen.Data),
	}
}

func Scal(alpha float64, gen blas64.General) {
	vec := ToVector(gen)
	blas64.Scal(alpha, vec)
}

func Axpy(alpha float64, x, y blas64.General) {
	xv := ToVector(x)
	yv := ToVector(y)
	blas64.Axpy(alpha, xv, yv)
}

func SumSquares(gen blas64.General) float64 {
	vec := ToVector(gen)
	return blas64.Dot(vec, vec)
}

func Sum0(gen blas64.General) blas64.Vector {
	sums := make([]float64, gen.Cols)
	for c := 0; c < gen.Cols; c++ {
		var sum float64
		for r := 0; r < gen.Rows; r++ {
			idx := At(gen, r, c)
			sum += gen.Data[idx]
		}
		sums[c] = sum
	}

	return blas64.Vector{
		N:    gen.Cols,
		Inc:  1,
		Data: sums,
	}
}

func Transpose(gen blas64.General) blas64.General {
	t := blas64.General{
		Rows:   gen.Cols,
		Cols:   gen.Rows,
		Stride: gen.Rows,
		Data:   make([]float64, N(gen)),
	}

	for i := range t.Rows {
		for j := range t.Cols {
			newIdx := At(t, i, j)
			oldIdx := At(gen, j, i)
			t.Data[newIdx] = gen.Data[oldIdx]
		}
	}
	return t
}

func Dot(tA, tB blas.Transpose, a, b blas64.General) blas64.General {
	rows := a.Rows
	if tA != blas.NoTrans {
		rows = a.Cols
	}
	cols := b.Cols
	if tB != blas.NoTrans {
		cols = b.Rows
	}

	y := blas64.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float64, rows*cols),
	}
	blas64.Gemm(tA, tB, 1.0, a, b, 0.0, y)
	return y
}

func RowsByIndices(gen blas64.General, idxs []int) blas64.General {
	y := NewZeros(len(idxs), gen.Cols)
	for i, idx := range idxs {
		copy(Row(y, i), Row(gen, idx))
	}
	return y
}
