package twolayer_test

import (
	"slices"
	"testing"

	omwrand "github.com/sw965/omw/math/rand"
	omwslices "github.com/sw965/omw/slices"
	tensor2d "github.com/sw965/wren/blas64/tensor/2d"
	"github.com/sw965/wren/dataset"
	"github.com/sw965/wren/model/twolayer"
	"gonum.org/v1/gonum/blas/blas64"
)

func TestDefaultTrainConfig(t *testing.T) {
	cfg := twolayer.DefaultTrainConfig()
	if cfg.LearningRate != 0.001 || cfg.LearningRateDecay != 0.95 || cfg.Reg != 5e-6 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.NumIters != 100 || cfg.BatchSize != 200 || cfg.Verbose {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestTrainInvalidConfig(t *testing.T) {
	c, x, labels := newTestClassifier(t)
	rng := newRng(3)

	bad := []twolayer.TrainConfig{
		{LearningRate: 0.1, LearningRateDecay: 0.95, NumIters: 0, BatchSize: 2},
		{LearningRate: 0.1, LearningRateDecay: 0.95, NumIters: 10, BatchSize: 0},
		{LearningRate: 0.1, LearningRateDecay: 0.95, NumIters: 10, BatchSize: -1},
		{LearningRate: 0.0, LearningRateDecay: 0.95, NumIters: 10, BatchSize: 2},
		{LearningRate: 0.1, LearningRateDecay: 0.0, NumIters: 10, BatchSize: 2},
		{LearningRate: 0.1, LearningRateDecay: 0.95, Reg: -1.0, NumIters: 10, BatchSize: 2},
	}
	for i, cfg := range bad {
		if _, err := c.Train(x, labels, x, labels, &cfg, rng); err == nil {
			t.Errorf("config %d was accepted: %+v", i, cfg)
		}
	}
}

func TestTrainDeterminism(t *testing.T) {
	run := func() twolayer.History {
		rng := newRng(42)
		x, labels, err := dataset.SeparableBlobs(12, 3, 3, 0.5, rng)
		if err != nil {
			t.Fatal(err)
		}
		valX, valLabels, err := dataset.SeparableBlobs(6, 3, 3, 0.5, rng)
		if err != nil {
			t.Fatal(err)
		}

		c, err := twolayer.New(3, 8, 3, 0.1, rng)
		if err != nil {
			t.Fatal(err)
		}

		cfg := twolayer.TrainConfig{
			LearningRate:      0.1,
			LearningRateDecay: 0.95,
			Reg:               1e-3,
			NumIters:          30,
			BatchSize:         3,
		}
		history, err := c.Train(x, labels, valX, valLabels, &cfg, rng)
		if err != nil {
			t.Fatal(err)
		}
		return history
	}

	first := run()
	second := run()

	if !slices.Equal(first.Losses, second.Losses) {
		t.Errorf("loss histories differ under the same seed")
	}
	if !slices.Equal(first.TrainAccs, second.TrainAccs) {
		t.Errorf("training accuracy histories differ under the same seed")
	}
	if !slices.Equal(first.ValAccs, second.ValAccs) {
		t.Errorf("validation accuracy histories differ under the same seed")
	}

	if len(first.Losses) != 30 {
		t.Errorf("loss history length = %d, want 30", len(first.Losses))
	}
	// 12/3 = 4 iterations per epoch; boundaries at 0, 4, ..., 28.
	if len(first.TrainAccs) != 8 {
		t.Errorf("accuracy history length = %d, want 8", len(first.TrainAccs))
	}
}

// Train must apply plain SGD updates with the current learning rate and decay
// it at every epoch boundary, iteration 0 included. The manual loop below
// replays the exact same batches from an identically seeded rng.
func TestTrainStepAndDecay(t *testing.T) {
	dataRng := newRng(5)
	x, labels, err := dataset.SeparableBlobs(4, 2, 2, 0.3, dataRng)
	if err != nil {
		t.Fatal(err)
	}

	cA, err := twolayer.New(2, 3, 2, 0.1, newRng(7))
	if err != nil {
		t.Fatal(err)
	}
	cB := &twolayer.Classifier{
		Param:      cA.Param.Clone(),
		InputSize:  cA.InputSize,
		HiddenSize: cA.HiddenSize,
		OutputSize: cA.OutputSize,
	}

	lr := 0.25
	decay := 0.5
	reg := 0.01
	numIters := 3
	batchSize := 2

	cfg := twolayer.TrainConfig{
		LearningRate:      lr,
		LearningRateDecay: decay,
		Reg:               reg,
		NumIters:          numIters,
		BatchSize:         batchSize,
	}
	history, err := cA.Train(x, labels, x, labels, &cfg, newRng(8))
	if err != nil {
		t.Fatal(err)
	}

	rng := newRng(8)
	perEpoch := x.Rows / batchSize
	manualLr := lr
	manualLosses := make([]float64, 0, numIters)
	for it := 0; it < numIters; it++ {
		idxs := omwrand.Ints(batchSize, 0, x.Rows, rng)
		xBatch := tensor2d.RowsByIndices(x, idxs)
		yBatch := omwslices.ElementsByIndices(labels, idxs...)

		loss, grads, err := cB.Loss(xBatch, yBatch, reg)
		if err != nil {
			t.Fatal(err)
		}
		manualLosses = append(manualLosses, loss)

		tensor2d.Axpy(-manualLr, grads.W1, cB.Param.W1)
		blas64.Axpy(-manualLr, grads.B1, cB.Param.B1)
		tensor2d.Axpy(-manualLr, grads.W2, cB.Param.W2)
		blas64.Axpy(-manualLr, grads.B2, cB.Param.B2)

		if it%perEpoch == 0 {
			manualLr *= decay
		}
	}

	if !slices.Equal(history.Losses, manualLosses) {
		t.Errorf("loss history = %v, want %v", history.Losses, manualLosses)
	}
	if !slices.Equal(cA.Param.W1.Data, cB.Param.W1.Data) {
		t.Errorf("W1 diverged from the manual SGD replay")
	}
	if !slices.Equal(cA.Param.B1.Data, cB.Param.B1.Data) {
		t.Errorf("B1 diverged from the manual SGD replay")
	}
	if !slices.Equal(cA.Param.W2.Data, cB.Param.W2.Data) {
		t.Errorf("W2 diverged from the manual SGD replay")
	}
	if !slices.Equal(cA.Param.B2.Data, cB.Param.B2.Data) {
		t.Errorf("B2 diverged from the manual SGD replay")
	}

	// perEpoch = 2, so boundaries fall on iterations 0 and 2.
	if len(history.TrainAccs) != 2 || len(history.ValAccs) != 2 {
		t.Errorf("accuracy history lengths = %d/%d, want 2/2", len(history.TrainAccs), len(history.ValAccs))
	}
}

func TestTrainSeparableBlobs(t *testing.T) {
	rng := newRng(11)
	x, labels, err := dataset.SeparableBlobs(50, 4, 3, 0.5, rng)
	if err != nil {
		t.Fatal(err)
	}
	valX, valLabels, err := dataset.SeparableBlobs(15, 4, 3, 0.5, rng)
	if err != nil {
		t.Fatal(err)
	}

	c, err := twolayer.New(4, 10, 3, 0.1, rng)
	if err != nil {
		t.Fatal(err)
	}

	cfg := twolayer.TrainConfig{
		LearningRate:      0.5,
		LearningRateDecay: 1.0,
		Reg:               0.0,
		NumIters:          200,
		BatchSize:         50,
	}
	history, err := c.Train(x, labels, valX, valLabels, &cfg, rng)
	if err != nil {
		t.Fatal(err)
	}

	if len(history.Losses) != 200 {
		t.Fatalf("loss history length = %d, want 200", len(history.Losses))
	}

	trainAcc, err := c.Accuracy(x, labels)
	if err != nil {
		t.Fatal(err)
	}
	if trainAcc <= 0.9 {
		t.Errorf("final training accuracy = %f, want > 0.9", trainAcc)
	}

	final := history.Losses[len(history.Losses)-1]
	initial := history.Losses[0]
	if final >= initial {
		t.Errorf("loss did not decrease: first %f, last %f", initial, final)
	}
}
