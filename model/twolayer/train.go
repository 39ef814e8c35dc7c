package twolayer

import (
	"fmt"
	"math/rand"

	omwrand "github.com/sw965/omw/math/rand"
	omwslices "github.com/sw965/omw/slices"
	tensor2d "github.com/sw965/wren/blas64/tensor/2d"
	"gonum.org/v1/gonum/blas/blas64"
)

type TrainConfig struct {
	LearningRate      float64
	LearningRateDecay float64
	Reg               float64
	NumIters          int
	BatchSize         int
	Verbose           bool
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate:      0.001,
		LearningRateDecay: 0.95,
		Reg:               5e-6,
		NumIters:          100,
		BatchSize:         200,
	}
}

func (cfg *TrainConfig) validate() error {
	if cfg.NumIters <= 0 {
		return fmt.Errorf("twolayer: NumIters must be positive, got %d", cfg.NumIters)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("twolayer: BatchSize must be positive, got %d", cfg.BatchSize)
	}
	if cfg.LearningRate <= 0 {
		return fmt.Errorf("twolayer: LearningRate must be positive, got %f", cfg.LearningRate)
	}
	if cfg.LearningRateDecay <= 0 {
		return fmt.Errorf("twolayer: LearningRateDecay must be positive, got %f", cfg.LearningRateDecay)
	}
	if cfg.Reg < 0 {
		return fmt.Errorf("twolayer: Reg must not be negative, got %f", cfg.Reg)
	}
	return nil
}

type History struct {
	Losses    []float64
	TrainAccs []float64
	ValAccs   []float64
}

// Train runs exactly cfg.NumIters SGD iterations, sampling each mini-batch
// uniformly with replacement. At every epoch boundary (iteration 0 included)
// it records the mini-batch and validation accuracies and decays the
// learning rate.
func (c *Classifier) Train(x blas64.General, labels []int, valX blas64.General, valLabels []int, cfg *TrainConfig, rng *rand.Rand) (History, error) {
	if err := cfg.validate(); err != nil {
		return History{}, err
	}
	if err := c.validateInput(x); err != nil {
		return History{}, err
	}
	if err := c.validateLabels(x.Rows, labels); err != nil {
		return History{}, err
	}
	if err := c.validateInput(valX); err != nil {
		return History{}, err
	}
	if err := c.validateLabels(valX.Rows, valLabels); err != nil {
		return History{}, err
	}

	n := x.Rows
	if n == 0 {
		return History{}, fmt.Errorf("twolayer: training set is empty")
	}

	perEpoch := n / cfg.BatchSize
	if perEpoch < 1 {
		perEpoch = 1
	}

	lr := cfg.LearningRate
	history := History{
		Losses: make([]float64, 0, cfg.NumIters),
	}

	for it := 0; it < cfg.NumIters; it++ {
		idxs := omwrand.Ints(cfg.BatchSize, 0, n, rng)
		xBatch := tensor2d.RowsByIndices(x, idxs)
		yBatch := omwslices.ElementsByIndices(labels, idxs...)

		loss, grads, err := c.Loss(xBatch, yBatch, cfg.Reg)
		if err != nil {
			return History{}, err
		}
		history.Losses = append(history.Losses, loss)

		tensor2d.Axpy(-lr, grads.W1, c.Param.W1)
		blas64.Axpy(-lr, grads.B1, c.Param.B1)
		tensor2d.Axpy(-lr, grads.W2, c.Param.W2)
		blas64.Axpy(-lr, grads.B2, c.Param.B2)

		if cfg.Verbose && it%100 == 0 {
			fmt.Printf("iteration %d / %d: loss %f\n", it, cfg.NumIters, loss)
		}

		// Epoch boundary; 0 % perEpoch == 0, so iteration 0 counts.
		if it%perEpoch == 0 {
			trainAcc, err := c.Accuracy(xBatch, yBatch)
			if err != nil {
				return History{}, err
			}
			valAcc, err := c.Accuracy(valX, valLabels)
			if err != nil {
				return History{}, err
			}
			history.TrainAccs = append(history.TrainAccs, trainAcc)
			history.ValAccs = append(history.ValAccs, valAcc)
			lr *= cfg.LearningRateDecay
		}
	}
	return history, nil
}
