// Package twolayer implements a fully connected classifier with one hidden
// layer: input - affine - ReLU - affine - softmax cross-entropy, trained by
// mini-batch SGD with L2 regularization on the weight matrices.
package twolayer

import (
	"fmt"
	"math"
	"math/rand"

	omwslices "github.com/sw965/omw/slices"
	tensor2d "github.com/sw965/wren/blas64/tensor/2d"
	"github.com/sw965/wren/blas64/vector"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

const DefaultInitStd = 1e-4

type Classifier struct {
	Param      Parameter
	InputSize  int
	HiddenSize int
	OutputSize int
}

// New initializes W1 and W2 with normal draws scaled by initStd and the
// biases with zeros. Passing initStd == 0 selects DefaultInitStd.
func New(inputSize, hiddenSize, outputSize int, initStd float64, rng *rand.Rand) (*Classifier, error) {
	if inputSize <= 0 || hiddenSize <= 0 || outputSize <= 0 {
		return nil, fmt.Errorf("twolayer: sizes must be positive (input=%d, hidden=%d, output=%d)", inputSize, hiddenSize, outputSize)
	}

	if initStd == 0 {
		initStd = DefaultInitStd
	}

	param := Parameter{
		W1: tensor2d.NewRandNorm(inputSize, hiddenSize, initStd, rng),
		B1: vector.NewZeros(hiddenSize),
		W2: tensor2d.NewRandNorm(hiddenSize, outputSize, initStd, rng),
		B2: vector.NewZeros(outputSize),
	}

	return &Classifier{
		Param:      param,
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		OutputSize: outputSize,
	}, nil
}

func (c *Classifier) validateInput(x blas64.General) error {
	if x.Cols != c.InputSize {
		return fmt.Errorf("twolayer: input has %d features, want %d", x.Cols, c.InputSize)
	}
	return nil
}

func (c *Classifier) validateLabels(rows int, labels []int) error {
	if len(labels) != rows {
		return fmt.Errorf("twolayer: %d input rows but %d labels", rows, len(labels))
	}
	for i, label := range labels {
		if label < 0 || label >= c.OutputSize {
			return fmt.Errorf("twolayer: label %d at index %d is outside [0, %d)", label, i, c.OutputSize)
		}
	}
	return nil
}

// forward returns the post-ReLU hidden activations (every entry >= 0) and the
// unnormalized class scores.
func (c *Classifier) forward(x blas64.General) (blas64.General, blas64.General) {
	a1 := tensor2d.Dot(blas.NoTrans, blas.NoTrans, x, c.Param.W1)
	for r := 0; r < a1.Rows; r++ {
		row := tensor2d.Row(a1, r)
		for j, b := range c.Param.B1.Data {
			v := row[j] + b
			if v < 0 {
				v = 0
			}
			row[j] = v
		}
	}

	scores := tensor2d.Dot(blas.NoTrans, blas.NoTrans, a1, c.Param.W2)
	for r := 0; r < scores.Rows; r++ {
		row := tensor2d.Row(scores, r)
		for j, b := range c.Param.B2.Data {
			row[j] += b
		}
	}
	return a1, scores
}

// Scores runs the forward pass only and returns the N×C class scores.
func (c *Classifier) Scores(x blas64.General) (blas64.General, error) {
	if err := c.validateInput(x); err != nil {
		return blas64.General{}, err
	}
	_, scores := c.forward(x)
	return scores, nil
}

// Loss computes the mean softmax cross-entropy over the batch plus
// (reg/2)·(ΣW1² + ΣW2²), and the gradients of every parameter.
func (c *Classifier) Loss(x blas64.General, labels []int, reg float64) (float64, GradBuffer, error) {
	if err := c.validateInput(x); err != nil {
		return 0.0, GradBuffer{}, err
	}
	if err := c.validateLabels(x.Rows, labels); err != nil {
		return 0.0, GradBuffer{}, err
	}

	n := x.Rows
	a1, scores := c.forward(x)

	// exp without a row-max shift; scores of extreme magnitude can overflow.
	probs := tensor2d.NewZerosLike(scores)
	sumLogLoss := 0.0
	for r := 0; r < n; r++ {
		scoreRow := tensor2d.Row(scores, r)
		probRow := tensor2d.Row(probs, r)
		sumExp := 0.0
		for j, s := range scoreRow {
			e := math.Exp(s)
			probRow[j] = e
			sumExp += e
		}
		for j := range probRow {
			probRow[j] /= sumExp
		}
		sumLogLoss += -math.Log(probRow[labels[r]])
	}
	dataLoss := sumLogLoss / float64(n)
	regLoss := 0.5 * reg * (tensor2d.SumSquares(c.Param.W1) + tensor2d.SumSquares(c.Param.W2))
	loss := dataLoss + regLoss

	// dScores is a fresh matrix so probs is never mutated.
	dScores := tensor2d.Clone(probs)
	for r := 0; r < n; r++ {
		dScores.Data[tensor2d.At(dScores, r, labels[r])] -= 1.0
	}
	tensor2d.Scal(1.0/float64(n), dScores)

	dW2 := tensor2d.Dot(blas.Trans, blas.NoTrans, a1, dScores)
	dB2 := tensor2d.Sum0(dScores)

	dA1 := tensor2d.Dot(blas.NoTrans, blas.Trans, dScores, c.Param.W2)
	for i, a := range a1.Data {
		if a <= 0 {
			dA1.Data[i] = 0.0
		}
	}

	dW1 := tensor2d.Dot(blas.Trans, blas.NoTrans, x, dA1)
	dB1 := tensor2d.Sum0(dA1)

	tensor2d.Axpy(reg, c.Param.W1, dW1)
	tensor2d.Axpy(reg, c.Param.W2, dW2)

	grads := GradBuffer{W1: dW1, B1: dB1, W2: dW2, B2: dB2}
	return loss, grads, nil
}

// Predict returns the argmax class per input row.
func (c *Classifier) Predict(x blas64.General) ([]int, error) {
	scores, err := c.Scores(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, scores.Rows)
	for r := range labels {
		labels[r] = omwslices.MaxIndex(tensor2d.Row(scores, r))
	}
	return labels, nil
}

func (c *Classifier) Accuracy(x blas64.General, labels []int) (float64, error) {
	if len(labels) != x.Rows {
		return 0.0, fmt.Errorf("twolayer: %d input rows but %d labels", x.Rows, len(labels))
	}
	pred, err := c.Predict(x)
	if err != nil {
		return 0.0, err
	}
	correct := 0
	for i, p := range pred {
		if p == labels[i] {
			correct += 1
		}
	}
	return float64(correct) / float64(len(labels)), nil
}
