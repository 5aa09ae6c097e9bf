// Package minituna provides a small hyperparameter search harness. An
// objective function asks a trial handle for typed parameter values, computes
// a score, and returns it; a Study repeats this for N trials, records every
// outcome and reports the best trial.
//
// # Features
//
// The package includes the following key features:
//
//   - Four parameter spaces: uniform floats, log-uniform floats, uniform
//     integers and categorical choices over bools, ints, floats and strings
//   - Independent random sampling, reproducible with a seed
//   - Failure containment: an objective that errors, panics or returns NaN
//     fails only its own trial
//   - Strict trial state machine: parameters and values can't change once a
//     trial is completed or failed
//   - Optional concurrent trial evaluation
//   - Progress updates via channels, structured logs via log/slog and
//     OpenTelemetry spans and metrics
//
// # Usage
//
//	study := minituna.CreateStudy()
//
//	err := study.Optimize(ctx, func(trial *minituna.Trial) (float64, error) {
//	    x, err := trial.SuggestFloat("x", 0, 10)
//	    if err != nil {
//	        return 0, err
//	    }
//
//	    y, err := trial.SuggestFloat("y", 0, 10)
//	    if err != nil {
//	        return 0, err
//	    }
//
//	    return (x-3)*(x-3) + (y-5)*(y-5), nil
//	}, 100)
//	if err != nil {
//	    return err
//	}
//
//	best, err := study.BestTrial()
//
// # Parameter Spaces
//
// The Trial handle exposes one suggestion per distribution:
//
//  1. SuggestFloat(name, low, high): uniform over [low, high)
//
//  2. SuggestLogFloat(name, low, high): log-uniform over [low, high], low > 0.
//     Draws concentrate toward low on a linear scale, which suits learning
//     rates and regularization strengths.
//
//  3. SuggestInt(name, low, high): uniform over the integers [low, high]
//
//  4. SuggestCategorical(name, choices): one of choices. SuggestCategoricalOf
//     is the typed variant:
//
//     optimizer, err := minituna.SuggestCategoricalOf(trial, "optimizer", []string{"sgd", "adam"})
//
// Malformed bounds (low > high, non-positive log bounds, empty choices) are
// reported by the suggest call itself. Suggesting a name twice within a trial
// overwrites the first value.
//
// # Configuration
//
// The Config struct allows customization of a study:
//
//	type Config struct {
//	    Name         string                // Study name, generated if empty
//	    Storage      Storage               // Trial records
//	    Sampler      Sampler               // Parameter sampling strategy
//	    Logger       *slog.Logger          // Trial lifecycle logs
//	    Concurrency  int                   // Trials evaluated at once
//	    ProgressChan chan<- ProgressUpdate // For progress monitoring
//	}
//
// # Thread Safety
//
//   - InMemoryStorage serializes identifier assignment and all mutations
//   - RandomSampler serializes access to its random source
//   - A Trial handle must only be used by the objective call it was given to
package minituna
