package twolayer

import (
	tensor2d "github.com/sw965/wren/blas64/tensor/2d"
	"github.com/sw965/wren/blas64/vector"
	"gonum.org/v1/gonum/blas/blas64"
)

type Parameter struct {
	W1 blas64.General
	B1 blas64.Vector
	W2 blas64.General
	B2 blas64.Vector
}

func (p *Parameter) Clone() Parameter {
	return Parameter{
		W1: tensor2d.Clone(p.W1),
		B1: vector.Clone(p.B1),
		W2: tensor2d.Clone(p.W2),
		B2: vector.Clone(p.B2),
	}
}

type GradBuffer struct {
	W1 blas64.General
	B1 blas64.Vector
	W2 blas64.General
	B2 blas64.Vector
}
