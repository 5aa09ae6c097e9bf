package minituna

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the outcome of a set of trials.
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Running   int

	// Best is the best completed trial, nil when none completed.
	Best *FrozenTrial

	// Statistics over completed objective values. All NaN when none
	// completed; StdDev is NaN with fewer than two.
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes a Summary over trials. The best trial follows the same
// rule as Storage.BestTrial: lowest value, earliest on ties.
func Summarize(trials []FrozenTrial) Summary {
	summary := Summary{
		Total:  len(trials),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}

	values := make([]float64, 0, len(trials))

	for i := range trials {
		t := trials[i]

		switch t.State {
		case TrialCompleted:
			summary.Completed++
		case TrialFailed:
			summary.Failed++
		default:
			summary.Running++
		}

		v, ok := t.ObjectiveValue()
		if !ok {
			continue
		}

		values = append(values, v)

		if summary.Best == nil {
			best := t.clone()
			summary.Best = &best

			continue
		}

		if bv, _ := summary.Best.ObjectiveValue(); v < bv {
			best := t.clone()
			summary.Best = &best
		}
	}

	if len(values) == 0 {
		return summary
	}

	summary.Min = floats.Min(values)
	summary.Max = floats.Max(values)

	if len(values) == 1 {
		summary.Mean = values[0]

		return summary
	}

	summary.Mean, summary.StdDev = stat.MeanStdDev(values, nil)

	return summary
}

// Summary summarizes the study's trials.
func (s *Study) Summary() Summary {
	return Summarize(s.storage.AllTrials())
}

// String renders a short human-readable report.
func (s Summary) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "trials: %d (completed: %d, failed: %d, running: %d)",
		s.Total, s.Completed, s.Failed, s.Running)

	if s.Best == nil {
		b.WriteString("; no completed trials")

		return b.String()
	}

	v, _ := s.Best.ObjectiveValue()
	fmt.Fprintf(&b, "; best trial: %d, value: %g", s.Best.ID, v)

	if !math.IsNaN(s.StdDev) {
		fmt.Fprintf(&b, "; mean: %g, stddev: %g", s.Mean, s.StdDev)
	}

	return b.String()
}
