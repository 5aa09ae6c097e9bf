package minituna

import (
	"fmt"
	"math"
)

//////
// Const, vars, types.
//////

// DistributionKind identifies a distribution variant.
type DistributionKind int

const (
	// KindUniform is a continuous uniform distribution.
	KindUniform DistributionKind = iota + 1

	// KindLogUniform is a continuous distribution, uniform in log space.
	KindLogUniform

	// KindIntUniform is a discrete uniform distribution over integers.
	KindIntUniform

	// KindCategorical is a uniform choice over an ordered set of values.
	KindCategorical
)

// Distribution describes one parameter's value space and how a sampled value
// maps between its internal numeric form (what a Sampler produces and
// Storage records) and its external form (what the objective sees).
//
// The set of implementations is closed: UniformDistribution,
// LogUniformDistribution, IntUniformDistribution and CategoricalDistribution.
//
// Internal forms:
// - Uniform, LogUniform: the value itself (never its logarithm)
// - IntUniform: the integer as float64
// - Categorical: the index of the choice as float64
type Distribution interface {
	// Kind returns the variant tag.
	Kind() DistributionKind

	// Validate reports malformed bounds or choices.
	Validate() error

	// Single reports whether the space holds exactly one point.
	Single() bool

	// ToExternal decodes an internal value into the user-facing Value.
	ToExternal(internal float64) (Value, error)

	// ToInternal encodes a user-facing Value into its internal form.
	ToInternal(external Value) (float64, error)

	isDistribution()
}

// UniformDistribution draws floats uniformly from [Low, High).
type UniformDistribution struct {
	Low  float64
	High float64
}

// LogUniformDistribution draws floats whose logarithm is uniform over
// [ln(Low), ln(High)). Both bounds must be strictly positive.
type LogUniformDistribution struct {
	Low  float64
	High float64
}

// IntUniformDistribution draws integers uniformly from [Low, High], both ends
// inclusive.
//
// The internal form is a float64, which represents every integer exactly only
// up to 2^53 in magnitude. Beyond that, recorded values are rounded to the
// nearest representable float and then clamped to [Low, High], so bounds
// larger than 2^53 lose resolution.
type IntUniformDistribution struct {
	Low  int
	High int
}

// CategoricalDistribution draws one of Choices uniformly. Choice order is
// significant: it fixes which index maps to which value.
type CategoricalDistribution struct {
	Choices []Value
}

//////
// Factory.
//////

// NewUniformDistribution returns a validated UniformDistribution.
func NewUniformDistribution(low, high float64) (UniformDistribution, error) {
	d := UniformDistribution{Low: low, High: high}

	return d, d.Validate()
}

// NewLogUniformDistribution returns a validated LogUniformDistribution.
func NewLogUniformDistribution(low, high float64) (LogUniformDistribution, error) {
	d := LogUniformDistribution{Low: low, High: high}

	return d, d.Validate()
}

// NewIntUniformDistribution returns a validated IntUniformDistribution.
func NewIntUniformDistribution(low, high int) (IntUniformDistribution, error) {
	d := IntUniformDistribution{Low: low, High: high}

	return d, d.Validate()
}

// NewCategoricalDistribution returns a validated CategoricalDistribution
// holding a copy of choices, in the same order.
func NewCategoricalDistribution(choices []Value) (CategoricalDistribution, error) {
	d := CategoricalDistribution{Choices: append([]Value(nil), choices...)}

	return d, d.Validate()
}

//////
// Uniform.
//////

// Kind implements Distribution.
func (UniformDistribution) Kind() DistributionKind { return KindUniform }

// Validate implements Distribution.
func (d UniformDistribution) Validate() error { return validateBounds(d.Low, d.High) }

// Single implements Distribution.
func (d UniformDistribution) Single() bool { return d.Low == d.High }

// ToExternal implements Distribution.
func (d UniformDistribution) ToExternal(internal float64) (Value, error) {
	if math.IsNaN(internal) {
		return Value{}, fmt.Errorf("%w: NaN", ErrInvalidValue)
	}

	return FloatValue(internal), nil
}

// ToInternal implements Distribution.
func (d UniformDistribution) ToInternal(external Value) (float64, error) {
	f, ok := external.AsFloat()
	if !ok {
		return 0, fmt.Errorf("%w: uniform expects a float, got %s", ErrInvalidValue, external.Kind())
	}

	return f, nil
}

func (UniformDistribution) isDistribution() {}

//////
// LogUniform.
//////

// Kind implements Distribution.
func (LogUniformDistribution) Kind() DistributionKind { return KindLogUniform }

// Validate implements Distribution.
func (d LogUniformDistribution) Validate() error {
	if err := validateBounds(d.Low, d.High); err != nil {
		return err
	}

	if d.Low <= 0 {
		return fmt.Errorf("%w: log-uniform low=%v must be positive", ErrInvalidBounds, d.Low)
	}

	return nil
}

// Single implements Distribution.
func (d LogUniformDistribution) Single() bool { return d.Low == d.High }

// ToExternal implements Distribution.
func (d LogUniformDistribution) ToExternal(internal float64) (Value, error) {
	if math.IsNaN(internal) {
		return Value{}, fmt.Errorf("%w: NaN", ErrInvalidValue)
	}

	return FloatValue(internal), nil
}

// ToInternal implements Distribution.
func (d LogUniformDistribution) ToInternal(external Value) (float64, error) {
	f, ok := external.AsFloat()
	if !ok {
		return 0, fmt.Errorf("%w: log-uniform expects a float, got %s", ErrInvalidValue, external.Kind())
	}

	return f, nil
}

func (LogUniformDistribution) isDistribution() {}

//////
// IntUniform.
//////

// Kind implements Distribution.
func (IntUniformDistribution) Kind() DistributionKind { return KindIntUniform }

// Validate implements Distribution.
func (d IntUniformDistribution) Validate() error { return validateBounds(d.Low, d.High) }

// Single implements Distribution.
func (d IntUniformDistribution) Single() bool { return d.Low == d.High }

// ToExternal implements Distribution. The internal float is rounded to the
// nearest integer and clamped to [Low, High].
func (d IntUniformDistribution) ToExternal(internal float64) (Value, error) {
	if math.IsNaN(internal) {
		return Value{}, fmt.Errorf("%w: NaN", ErrInvalidValue)
	}

	r := math.Round(internal)

	// Compare as floats first: float64(d.High) may round past the int range.
	switch {
	case r <= float64(d.Low):
		return IntValue(d.Low), nil
	case r >= float64(d.High):
		return IntValue(d.High), nil
	default:
		return IntValue(clamp(int(r), d.Low, d.High)), nil
	}
}

// ToInternal implements Distribution.
func (d IntUniformDistribution) ToInternal(external Value) (float64, error) {
	i, ok := external.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: int-uniform expects an int, got %s", ErrInvalidValue, external.Kind())
	}

	return float64(i), nil
}

func (IntUniformDistribution) isDistribution() {}

//////
// Categorical.
//////

// Kind implements Distribution.
func (CategoricalDistribution) Kind() DistributionKind { return KindCategorical }

// Validate implements Distribution.
func (d CategoricalDistribution) Validate() error {
	if len(d.Choices) == 0 {
		return ErrEmptyChoices
	}

	for i, c := range d.Choices {
		if !c.IsValid() {
			return fmt.Errorf("%w: choice %d is not set", ErrInvalidValue, i)
		}
	}

	return nil
}

// Single implements Distribution.
func (d CategoricalDistribution) Single() bool { return len(d.Choices) == 1 }

// ToExternal implements Distribution. internal must be an integral index into
// Choices.
func (d CategoricalDistribution) ToExternal(internal float64) (Value, error) {
	if math.IsNaN(internal) || internal != math.Trunc(internal) {
		return Value{}, fmt.Errorf("%w: index %v is not integral", ErrInvalidValue, internal)
	}

	if internal < 0 || internal >= float64(len(d.Choices)) {
		return Value{}, fmt.Errorf("%w: index %v out of range [0, %d)", ErrInvalidValue, internal, len(d.Choices))
	}

	return d.Choices[int(internal)], nil
}

// ToInternal implements Distribution. The first matching choice wins.
func (d CategoricalDistribution) ToInternal(external Value) (float64, error) {
	for i, c := range d.Choices {
		if c.Equal(external) {
			return float64(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %s is not a choice", ErrInvalidValue, external)
}

func (CategoricalDistribution) isDistribution() {}

// String implements fmt.Stringer.
func (k DistributionKind) String() string {
	switch k {
	case KindUniform:
		return "uniform"
	case KindLogUniform:
		return "log_uniform"
	case KindIntUniform:
		return "int_uniform"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("DistributionKind(%d)", int(k))
	}
}
