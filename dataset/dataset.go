// Package dataset generates small synthetic classification datasets used by
// the tests and the demo driver.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	tensor2d "github.com/sw965/wren/blas64/tensor/2d"
	"gonum.org/v1/gonum/blas/blas64"
)

// SeparableBlobs draws one Gaussian cluster per class, centered 4.0 along a
// per-class axis. Row i gets label i % classes. The clusters are linearly
// separable for small spread.
func SeparableBlobs(n, features, classes int, spread float64, rng *rand.Rand) (blas64.General, []int, error) {
	if n <= 0 || features <= 0 || classes <= 0 {
		return blas64.General{}, nil, fmt.Errorf("dataset: sizes must be positive (n=%d, features=%d, classes=%d)", n, features, classes)
	}
	if classes > features {
		return blas64.General{}, nil, fmt.Errorf("dataset: %d classes need at least %d features, got %d", classes, classes, features)
	}

	x := tensor2d.NewZeros(n, features)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		label := i % classes
		labels[i] = label
		row := tensor2d.Row(x, i)
		for j := range row {
			row[j] = rng.NormFloat64() * spread
		}
		row[label] += 4.0
	}
	return x, labels, nil
}

// Spiral generates the classic interleaved 2-D spiral arms, one arm per
// class; not linearly separable, so a hidden layer is required to fit it.
func Spiral(perClass, classes int, noise float64, rng *rand.Rand) (blas64.General, []int, error) {
	if perClass <= 0 || classes <= 0 {
		return blas64.General{}, nil, fmt.Errorf("dataset: sizes must be positive (perClass=%d, classes=%d)", perClass, classes)
	}

	n := perClass * classes
	x := tensor2d.NewZeros(n, 2)
	labels := make([]int, n)
	for c := 0; c < classes; c++ {
		for i := 0; i < perClass; i++ {
			idx := c*perClass + i
			radius := float64(i) / float64(perClass)
			theta := 4.0*float64(c) + 4.0*radius + rng.NormFloat64()*noise
			row := tensor2d.Row(x, idx)
			row[0] = radius * math.Sin(theta)
			row[1] = radius * math.Cos(theta)
			labels[idx] = c
		}
	}
	return x, labels, nil
}
