package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/seehuhn/mt19937"
	"github.com/sw965/wren/dataset"
	"github.com/sw965/wren/model/twolayer"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed")
	hidden := flag.Int("hidden", 100, "hidden layer size")
	classes := flag.Int("classes", 3, "number of classes")
	perClass := flag.Int("per-class", 100, "training points per class")
	noise := flag.Float64("noise", 0.2, "spiral angle noise")
	initStd := flag.Float64("init-std", 0.1, "weight initialization scale")
	lr := flag.Float64("lr", 1.0, "initial learning rate")
	decay := flag.Float64("decay", 0.95, "learning rate decay per epoch")
	reg := flag.Float64("reg", 1e-3, "L2 regularization strength")
	iters := flag.Int("iters", 1000, "SGD iterations")
	batch := flag.Int("batch", 100, "mini-batch size")
	verbose := flag.Bool("verbose", true, "print progress every 100 iterations")
	flag.Parse()

	src := mt19937.New()
	src.Seed(*seed)
	rng := rand.New(src)

	trainX, trainLabels, err := dataset.Spiral(*perClass, *classes, *noise, rng)
	if err != nil {
		log.Fatalf("generate training set: %v", err)
	}

	valPerClass := *perClass / 5
	if valPerClass < 1 {
		valPerClass = 1
	}
	valX, valLabels, err := dataset.Spiral(valPerClass, *classes, *noise, rng)
	if err != nil {
		log.Fatalf("generate validation set: %v", err)
	}

	c, err := twolayer.New(2, *hidden, *classes, *initStd, rng)
	if err != nil {
		log.Fatalf("build classifier: %v", err)
	}

	cfg := twolayer.TrainConfig{
		LearningRate:      *lr,
		LearningRateDecay: *decay,
		Reg:               *reg,
		NumIters:          *iters,
		BatchSize:         *batch,
		Verbose:           *verbose,
	}
	history, err := c.Train(trainX, trainLabels, valX, valLabels, &cfg, rng)
	if err != nil {
		log.Fatalf("train: %v", err)
	}

	trainAcc, err := c.Accuracy(trainX, trainLabels)
	if err != nil {
		log.Fatalf("training accuracy: %v", err)
	}
	valAcc, err := c.Accuracy(valX, valLabels)
	if err != nil {
		log.Fatalf("validation accuracy: %v", err)
	}

	log.Printf("final loss=%.4f train_acc=%.3f val_acc=%.3f epochs=%d",
		history.Losses[len(history.Losses)-1], trainAcc, valAcc, len(history.ValAccs))
}
