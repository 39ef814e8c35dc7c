package wren

import (
	wmath "github.com/sw965/wren/math"
	"golang.org/x/exp/constraints"
)

func NumericalGradient[X constraints.Float](xs []X, f func([]X) X) []X {
	h := X(0.0001)
	n := len(xs)
	grad := make([]X, n)
	for i := 0; i < n; i++ {
		tmp := xs[i]
		xs[i] = tmp + h
		y1 := f(xs)

		xs[i] = tmp - h
		y2 := f(xs)

		grad[i] = X(wmath.CentralDifference(float64(y1), float64(y2), float64(h)))
		xs[i] = tmp
	}
	return grad
}
