package minituna

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

//////
// Helper functions.
//////

// validateBounds checks that low <= high and, for floating-point bounds, that
// neither is NaN or infinite.
//
// Returns:
// - error: ErrInvalidBounds wrapped with the offending values, nil otherwise.
func validateBounds[T constraints.Integer | constraints.Float](low, high T) error {
	if !isFinite(float64(low)) || !isFinite(float64(high)) {
		return fmt.Errorf("%w: low=%v high=%v must be finite", ErrInvalidBounds, low, high)
	}

	if low > high {
		return fmt.Errorf("%w: low=%v must not exceed high=%v", ErrInvalidBounds, low, high)
	}

	return nil
}

// clamp constrains v to [low, high].
func clamp[T constraints.Integer | constraints.Float](v, low, high T) T {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// cloneParams deep-copies a parameter map so snapshots never share state
// with the storage that produced them.
func cloneParams(params map[string]Param) map[string]Param {
	out := make(map[string]Param, len(params))
	for name, p := range params {
		out[name] = Param{
			Distribution: cloneDistribution(p.Distribution),
			Internal:     p.Internal,
			Value:        p.Value,
		}
	}

	return out
}

// cloneDistribution copies the only distribution variant that carries a
// slice; the others are plain values.
func cloneDistribution(d Distribution) Distribution {
	if c, ok := d.(CategoricalDistribution); ok {
		return CategoricalDistribution{Choices: append([]Value(nil), c.Choices...)}
	}

	return d
}
