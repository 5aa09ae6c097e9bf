package minituna

import (
	"fmt"
	"time"
)

//////
// Const, vars, types.
//////

// TrialState is the lifecycle state of a trial.
//
// Transitions:
// - TrialRunning -> TrialCompleted: the objective returned a score
// - TrialRunning -> TrialFailed: the objective returned an error or panicked
//
// Completed and Failed are terminal.
type TrialState int

const (
	// TrialRunning is the initial state, set at creation.
	TrialRunning TrialState = iota

	// TrialCompleted means the objective value is recorded and immutable.
	TrialCompleted

	// TrialFailed means the objective failed; no value is recorded.
	TrialFailed
)

// Param pairs a sampled value with the distribution that produced it.
type Param struct {
	// Distribution the value was drawn from.
	Distribution Distribution

	// Internal is the value in the distribution's internal form.
	Internal float64

	// Value is the external form handed to the objective.
	Value Value
}

// FrozenTrial is a read-only snapshot of a trial. Snapshots are deep copies:
// mutating one never affects Storage or another snapshot.
type FrozenTrial struct {
	// ID is the trial number, assigned in creation order starting at 0.
	ID int

	// State is the lifecycle state at snapshot time.
	State TrialState

	// Value is the objective value; nil unless State is TrialCompleted.
	Value *float64

	// Params maps parameter names to what was suggested for them.
	Params map[string]Param

	// StartedAt is the creation time.
	StartedAt time.Time

	// FinishedAt is the time the trial reached a terminal state, zero while
	// running.
	FinishedAt time.Time

	// FailReason is the failure cause for failed trials.
	FailReason string
}

//////
// Methods.
//////

// String implements fmt.Stringer.
func (s TrialState) String() string {
	switch s {
	case TrialRunning:
		return "running"
	case TrialCompleted:
		return "completed"
	case TrialFailed:
		return "failed"
	default:
		return fmt.Sprintf("TrialState(%d)", int(s))
	}
}

// IsFinished reports whether the state is terminal.
func (s TrialState) IsFinished() bool {
	return s == TrialCompleted || s == TrialFailed
}

// Number returns the trial identifier.
func (t FrozenTrial) Number() int { return t.ID }

// IsFinished reports whether the trial reached a terminal state.
func (t FrozenTrial) IsFinished() bool { return t.State.IsFinished() }

// ObjectiveValue returns the objective value; ok is false unless the trial
// completed.
func (t FrozenTrial) ObjectiveValue() (value float64, ok bool) {
	if t.State != TrialCompleted || t.Value == nil {
		return 0, false
	}

	return *t.Value, true
}

// Param returns the parameter recorded under name.
func (t FrozenTrial) Param(name string) (Param, bool) {
	p, ok := t.Params[name]

	return p, ok
}

// ParamValues returns the external values of all parameters.
func (t FrozenTrial) ParamValues() map[string]Value {
	out := make(map[string]Value, len(t.Params))
	for name, p := range t.Params {
		out[name] = p.Value
	}

	return out
}

// Distributions returns the distribution of every parameter.
func (t FrozenTrial) Distributions() map[string]Distribution {
	out := make(map[string]Distribution, len(t.Params))
	for name, p := range t.Params {
		out[name] = p.Distribution
	}

	return out
}

// Duration is the time between creation and completion, zero while running.
func (t FrozenTrial) Duration() time.Duration {
	if t.FinishedAt.IsZero() {
		return 0
	}

	return t.FinishedAt.Sub(t.StartedAt)
}

// clone returns a deep copy.
func (t FrozenTrial) clone() FrozenTrial {
	out := t
	out.Params = cloneParams(t.Params)

	if t.Value != nil {
		v := *t.Value
		out.Value = &v
	}

	return out
}
