package minituna

import (
	"log/slog"
	"time"
)

// ProgressUpdate represents the state of the study after a trial finished.
type ProgressUpdate struct {
	// TrialID is the identifier of the trial that just finished
	TrialID int

	// State is the terminal state of that trial
	State TrialState

	// Value is the objective value of that trial, 0 if it failed
	Value float64

	// Completed is the number of completed trials so far
	Completed int

	// Failed is the number of failed trials so far
	Failed int

	// Total is the number of trials requested by the running Optimize call
	Total int

	// BestTrialID is the best trial so far, -1 when none completed
	BestTrialID int

	// BestValue is the best objective value so far, math.MaxFloat64 when none
	// completed
	BestValue float64

	// Duration is how long the objective took
	Duration time.Duration
}

// ObjectiveFunc defines the signature of the function being minimized.
//
// Parameters:
//   - trial: handle used to request parameter values. It is only valid for
//     the duration of the call and must not be retained.
//
// Returns:
// - float64: the score to minimize
// - error: non-nil marks the trial as failed; the study moves on
//
// Usage example:
//
//	objective := func(trial *Trial) (float64, error) {
//	    x, err := trial.SuggestFloat("x", 0, 10)
//	    if err != nil {
//	        return 0, err
//	    }
//
//	    return (x - 3) * (x - 3), nil
//	}
//
// Implementation notes:
// - A panic is recovered and treated as a failure of that trial only
// - Returning NaN marks the trial as failed
// - Use trial.Context() to observe cancellation of the surrounding Optimize
type ObjectiveFunc func(trial *Trial) (float64, error)

// Config holds everything needed to build a Study.
//
// Usage example:
//
//	config := DefaultConfig()
//
//	// Reproducible runs.
//	config.Sampler = NewSeededSampler(42)
//
//	// Evaluate four trials at a time.
//	config.Concurrency = 4
//
//	study := NewStudy(config)
//
// Any nil field is filled with its default by NewStudy.
type Config struct {
	// Name is a human-readable study name. Defaults to "study-<id prefix>".
	Name string

	// Storage records trials. Defaults to a new InMemoryStorage.
	Storage Storage

	// Sampler draws parameter values. Defaults to a clock-seeded
	// RandomSampler.
	Sampler Sampler

	// Logger receives trial lifecycle logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Concurrency is the number of trials evaluated at the same time.
	// Values below 1 are treated as 1 (sequential).
	Concurrency int

	// ProgressChan receives an update after every finished trial.
	// If nil, no updates will be sent. Updates are dropped when the channel
	// is full.
	ProgressChan chan<- ProgressUpdate
}
