package main

import (
	"math"

	"github.com/thalesfsp/minituna"
)

// objectives are the built-in objectives selectable with --objective.
var objectives = map[string]minituna.ObjectiveFunc{
	"quadratic": quadratic,
	"mixed":     mixed,
}

// quadratic has its minimum 0 at x=3, y=5.
func quadratic(trial *minituna.Trial) (float64, error) {
	x, err := trial.SuggestFloat("x", 0, 10)
	if err != nil {
		return 0, err
	}

	y, err := trial.SuggestFloat("y", 0, 10)
	if err != nil {
		return 0, err
	}

	return (x-3)*(x-3) + (y-5)*(y-5), nil
}

// optimizerPenalty is the extra loss of each optimizer choice.
var optimizerPenalty = map[string]float64{
	"sgd":      0.3,
	"momentum": 0.1,
	"adam":     0,
}

// mixed is a synthetic validation loss of a small network. It is lowest
// around lr=1e-3, 4 layers, adam, with dropout enabled.
func mixed(trial *minituna.Trial) (float64, error) {
	lr, err := trial.SuggestLogFloat("lr", 1e-5, 1e-1)
	if err != nil {
		return 0, err
	}

	layers, err := trial.SuggestInt("layers", 1, 8)
	if err != nil {
		return 0, err
	}

	optimizer, err := minituna.SuggestCategoricalOf(trial, "optimizer", []string{"sgd", "momentum", "adam"})
	if err != nil {
		return 0, err
	}

	dropout, err := minituna.SuggestCategoricalOf(trial, "dropout", []bool{true, false})
	if err != nil {
		return 0, err
	}

	loss := math.Pow(math.Log10(lr)+3, 2)
	loss += 0.05 * float64((layers-4)*(layers-4))
	loss += optimizerPenalty[optimizer]

	if !dropout {
		loss += 0.2
	}

	return loss, nil
}
