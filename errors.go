package minituna

import "errors"

//////
// Sentinel errors.
//////

var (
	// ErrInvalidBounds is returned when a distribution's bounds are malformed:
	// low > high, a NaN or infinite bound, or a non-positive log-uniform bound.
	ErrInvalidBounds = errors.New("minituna: invalid distribution bounds")

	// ErrEmptyChoices is returned when a categorical distribution is built
	// without choices.
	ErrEmptyChoices = errors.New("minituna: categorical distribution requires at least one choice")

	// ErrInvalidValue is returned when a value can't be encoded into, or
	// decoded from, a distribution's internal representation.
	ErrInvalidValue = errors.New("minituna: value does not belong to distribution")

	// ErrUnknownDistribution is returned by a sampler handed a distribution
	// kind it doesn't know how to draw from.
	ErrUnknownDistribution = errors.New("minituna: unknown distribution")

	// ErrTrialNotFound is returned when a trial identifier was never assigned.
	ErrTrialNotFound = errors.New("minituna: trial not found")

	// ErrTrialFinished is returned when a finished (completed or failed) trial
	// is mutated.
	ErrTrialFinished = errors.New("minituna: trial is already finished")

	// ErrInvalidTransition is returned for a trial state change the state
	// machine doesn't allow.
	ErrInvalidTransition = errors.New("minituna: invalid trial state transition")

	// ErrValueNotSet is returned when a trial is completed without an
	// objective value.
	ErrValueNotSet = errors.New("minituna: trial has no objective value")

	// ErrNoCompletedTrials is returned by best-trial queries when no trial has
	// completed.
	ErrNoCompletedTrials = errors.New("minituna: no completed trials")

	// ErrInvalidTrialCount is returned by Optimize for a negative trial count.
	ErrInvalidTrialCount = errors.New("minituna: trial count must be non-negative")

	// ErrNilObjective is returned by Optimize when no objective is given.
	ErrNilObjective = errors.New("minituna: objective must not be nil")

	// ErrObjectivePanic marks a trial whose objective panicked.
	ErrObjectivePanic = errors.New("minituna: objective panicked")

	// ErrNaNValue marks a trial whose objective returned NaN.
	ErrNaNValue = errors.New("minituna: objective returned NaN")
)
