package minituna

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

//////
// Const, vars, types.
//////

// Sampler draws a value from a distribution, independently of every value
// drawn before it. The result is in the distribution's internal form.
//
// Implementations must be safe for concurrent use.
type Sampler interface {
	Sample(dist Distribution) (float64, error)
}

// RandomSampler is the independent random sampler. Its only state is the
// random number generator, which nothing else reads or resets.
//
// Algorithms:
// - Uniform(low, high): uniform over [low, high)
// - LogUniform(low, high): exp of a uniform draw over [ln(low), ln(high))
// - IntUniform(low, high): uniform integer over [low, high], both inclusive
// - Categorical(choices): uniform index over [0, len(choices))
//
// Two samplers built with the same seed produce the same sequence.
type RandomSampler struct {
	// mu serializes access to rng.
	mu sync.Mutex

	rng *rand.Rand
}

//////
// Factory.
//////

// NewRandomSampler returns a RandomSampler seeded from the clock.
func NewRandomSampler() *RandomSampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler returns a deterministic RandomSampler.
func NewSeededSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

//////
// Methods.
//////

// Sample implements Sampler.
func (s *RandomSampler) Sample(dist Distribution) (float64, error) {
	if dist == nil {
		return 0, fmt.Errorf("%w: nil", ErrUnknownDistribution)
	}

	if err := dist.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch d := dist.(type) {
	case UniformDistribution:
		return s.uniform(d.Low, d.High), nil
	case LogUniformDistribution:
		return s.logUniform(d.Low, d.High), nil
	case IntUniformDistribution:
		return float64(s.intUniform(d.Low, d.High)), nil
	case CategoricalDistribution:
		return float64(s.rng.Intn(len(d.Choices))), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownDistribution, dist)
	}
}

// uniform draws from [low, high). A degenerate range returns low.
func (s *RandomSampler) uniform(low, high float64) float64 {
	if low == high {
		return low
	}

	f := s.rng.Float64()

	var v float64
	if width := high - low; !math.IsInf(width, 0) {
		v = low + f*width
	} else {
		// The width of a range spanning most of the float64 line overflows;
		// work on halved bounds and scale back.
		v = 2 * (low/2 + f*(high/2-low/2))
	}

	// low + f*(high-low) can round up to high for f close to 1.
	if v >= high {
		v = math.Nextafter(high, low)
	}

	return v
}

// logUniform draws a value whose logarithm is uniform over
// [ln(low), ln(high)).
func (s *RandomSampler) logUniform(low, high float64) float64 {
	if low == high {
		return low
	}

	v := math.Exp(s.uniform(math.Log(low), math.Log(high)))

	// exp(log(x)) isn't exact; keep rounding error inside the bounds.
	return clamp(v, low, high)
}

// intUniform draws an integer from [low, high]. The span is computed in
// uint64 so ranges wider than math.MaxInt64 don't overflow.
func (s *RandomSampler) intUniform(low, high int) int {
	span := uint64(high) - uint64(low)

	var offset uint64

	switch {
	case span < math.MaxInt64:
		offset = uint64(s.rng.Int63n(int64(span) + 1))
	case span == math.MaxUint64:
		offset = s.rng.Uint64()
	default:
		offset = s.uint64n(span + 1)
	}

	return int(uint64(low) + offset)
}

// uint64n draws uniformly from [0, n) for n > 0. Draws below 2^64 mod n are
// rejected so every residue is equally likely.
func (s *RandomSampler) uint64n(n uint64) uint64 {
	threshold := -n % n

	for {
		if v := s.rng.Uint64(); v >= threshold {
			return v % n
		}
	}
}
