package minituna

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Trial is the handle an objective uses to request parameter values for one
// run. It holds only the trial identifier and a reference to its Study, and
// it stops working once the objective returns.
//
// Every suggestion:
//  1. builds the distribution from the bounds or choices, failing on
//     malformed input
//  2. draws a value with the Study's Sampler
//  3. records (name, distribution, value) in Storage, which rejects the write
//     if the trial is no longer running
//  4. returns the value in its external form
//
// Suggesting the same name twice within a trial overwrites the earlier value.
type Trial struct {
	ctx   context.Context
	study *Study
	id    int

	// done is set when the objective returns.
	done atomic.Bool
}

func newTrial(ctx context.Context, study *Study, id int) *Trial {
	return &Trial{ctx: ctx, study: study, id: id}
}

//////
// Methods.
//////

// ID returns the trial identifier.
func (t *Trial) ID() int { return t.id }

// Context returns the context of the Optimize call running this trial.
func (t *Trial) Context() context.Context { return t.ctx }

// SuggestFloat suggests a float uniformly from [low, high).
func (t *Trial) SuggestFloat(name string, low, high float64) (float64, error) {
	dist, err := NewUniformDistribution(low, high)
	if err != nil {
		return 0, fmt.Errorf("suggest %q: %w", name, err)
	}

	v, err := t.Suggest(name, dist)
	if err != nil {
		return 0, err
	}

	f, _ := v.AsFloat()

	return f, nil
}

// SuggestLogFloat suggests a float from [low, high] whose logarithm is
// uniform. Both bounds must be positive.
func (t *Trial) SuggestLogFloat(name string, low, high float64) (float64, error) {
	dist, err := NewLogUniformDistribution(low, high)
	if err != nil {
		return 0, fmt.Errorf("suggest %q: %w", name, err)
	}

	v, err := t.Suggest(name, dist)
	if err != nil {
		return 0, err
	}

	f, _ := v.AsFloat()

	return f, nil
}

// SuggestInt suggests an integer uniformly from [low, high], both inclusive.
func (t *Trial) SuggestInt(name string, low, high int) (int, error) {
	dist, err := NewIntUniformDistribution(low, high)
	if err != nil {
		return 0, fmt.Errorf("suggest %q: %w", name, err)
	}

	v, err := t.Suggest(name, dist)
	if err != nil {
		return 0, err
	}

	i, _ := v.AsInt()

	return i, nil
}

// SuggestCategorical suggests one of choices uniformly.
func (t *Trial) SuggestCategorical(name string, choices []Value) (Value, error) {
	dist, err := NewCategoricalDistribution(choices)
	if err != nil {
		return Value{}, fmt.Errorf("suggest %q: %w", name, err)
	}

	return t.Suggest(name, dist)
}

// Suggest draws a value for name from dist and records it. All typed
// suggestion methods go through here.
func (t *Trial) Suggest(name string, dist Distribution) (Value, error) {
	if t.done.Load() {
		return Value{}, fmt.Errorf("suggest %q on trial %d: %w", name, t.id, ErrTrialFinished)
	}

	if dist == nil {
		return Value{}, fmt.Errorf("suggest %q: %w: nil", name, ErrUnknownDistribution)
	}

	// The sampler validates dist.
	internal, err := t.study.sampler.Sample(dist)
	if err != nil {
		return Value{}, fmt.Errorf("suggest %q: %w", name, err)
	}

	if err := t.study.storage.SetTrialParam(t.id, name, dist, internal); err != nil {
		return Value{}, fmt.Errorf("suggest %q: %w", name, err)
	}

	value, err := dist.ToExternal(internal)
	if err != nil {
		return Value{}, fmt.Errorf("suggest %q: %w", name, err)
	}

	t.study.logger.Debug("parameter suggested",
		slog.String("study", t.study.name),
		slog.Int("trial_id", t.id),
		slog.String("param", name),
		slog.String("distribution", dist.Kind().String()),
		slog.String("value", value.String()),
	)

	return value, nil
}

// Params returns the values suggested so far in this trial.
func (t *Trial) Params() (map[string]Value, error) {
	ft, err := t.study.storage.Trial(t.id)
	if err != nil {
		return nil, err
	}

	return ft.ParamValues(), nil
}

// finish invalidates the handle.
func (t *Trial) finish() { t.done.Store(true) }

//////
// Exported functionalities.
//////

// SuggestCategoricalOf is the typed form of Trial.SuggestCategorical: it
// suggests one of choices and returns it as T.
//
// Usage example:
//
//	optimizer, err := SuggestCategoricalOf(trial, "optimizer", []string{"sgd", "adam"})
//	useBias, err := SuggestCategoricalOf(trial, "bias", []bool{true, false})
func SuggestCategoricalOf[T Choosable](t *Trial, name string, choices []T) (T, error) {
	var zero T

	v, err := t.SuggestCategorical(name, ValuesOf(choices))
	if err != nil {
		return zero, err
	}

	out, ok := ValueAs[T](v)
	if !ok {
		return zero, fmt.Errorf("suggest %q: %w: got %s", name, ErrInvalidValue, v.Kind())
	}

	return out, nil
}
