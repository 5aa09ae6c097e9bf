package minituna

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStudy returns a quiet, seeded study.
func newTestStudy(seed int64) *Study {
	config := DefaultConfig()
	config.Name = "test"
	config.Sampler = NewSeededSampler(seed)
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewStudy(config)
}

// runOne runs a single trial of objective and returns its snapshot.
func runOne(t *testing.T, study *Study, objective ObjectiveFunc) FrozenTrial {
	t.Helper()

	require.NoError(t, study.Optimize(context.Background(), objective, 1))

	trials := study.Trials()
	require.NotEmpty(t, trials)

	return trials[len(trials)-1]
}

func TestTrialSuggestEachKind(t *testing.T) {
	study := newTestStudy(1)

	var (
		x    float64
		lr   float64
		n    int
		opt  Value
		bias bool
	)

	got := runOne(t, study, func(trial *Trial) (float64, error) {
		var err error

		if x, err = trial.SuggestFloat("x", -1, 1); err != nil {
			return 0, err
		}

		if lr, err = trial.SuggestLogFloat("lr", 1e-5, 1e-1); err != nil {
			return 0, err
		}

		if n, err = trial.SuggestInt("n", 2, 8); err != nil {
			return 0, err
		}

		if opt, err = trial.SuggestCategorical("opt", []Value{StringValue("sgd"), StringValue("adam")}); err != nil {
			return 0, err
		}

		if bias, err = SuggestCategoricalOf(trial, "bias", []bool{true, false}); err != nil {
			return 0, err
		}

		return x, nil
	})

	require.Equal(t, TrialCompleted, got.State)

	assert.GreaterOrEqual(t, x, -1.0)
	assert.Less(t, x, 1.0)
	assert.GreaterOrEqual(t, lr, 1e-5)
	assert.LessOrEqual(t, lr, 1e-1)
	assert.GreaterOrEqual(t, n, 2)
	assert.LessOrEqual(t, n, 8)
	assert.Contains(t, []Value{StringValue("sgd"), StringValue("adam")}, opt)

	assert.Equal(t, map[string]Value{
		"x":    FloatValue(x),
		"lr":   FloatValue(lr),
		"n":    IntValue(n),
		"opt":  opt,
		"bias": BoolValue(bias),
	}, got.ParamValues())

	assert.Equal(t, KindUniform, got.Params["x"].Distribution.Kind())
	assert.Equal(t, KindLogUniform, got.Params["lr"].Distribution.Kind())
	assert.Equal(t, KindIntUniform, got.Params["n"].Distribution.Kind())
	assert.Equal(t, KindCategorical, got.Params["opt"].Distribution.Kind())
	assert.Equal(t, KindCategorical, got.Params["bias"].Distribution.Kind())
}

func TestTrialSuggestDegenerateIntRange(t *testing.T) {
	study := newTestStudy(2)

	err := study.Optimize(context.Background(), func(trial *Trial) (float64, error) {
		n, err := trial.SuggestInt("n", 1, 1)
		if err != nil {
			return 0, err
		}

		assert.Equal(t, 1, n)

		return float64(n), nil
	}, 50)
	require.NoError(t, err)

	for _, tr := range study.Trials() {
		assert.Equal(t, TrialCompleted, tr.State)
		assert.Equal(t, IntValue(1), tr.Params["n"].Value)
	}
}

func TestTrialSuggestRejectsInvalidBounds(t *testing.T) {
	study := newTestStudy(3)

	var errs []error

	got := runOne(t, study, func(trial *Trial) (float64, error) {
		_, err := trial.SuggestFloat("a", 2, 1)
		errs = append(errs, err)

		_, err = trial.SuggestLogFloat("b", 0, 1)
		errs = append(errs, err)

		_, err = trial.SuggestInt("c", 5, 4)
		errs = append(errs, err)

		_, err = trial.SuggestCategorical("d", nil)
		errs = append(errs, err)

		_, err = SuggestCategoricalOf(trial, "e", []string{})
		errs = append(errs, err)

		return 0, nil
	})

	require.Len(t, errs, 5)
	assert.ErrorIs(t, errs[0], ErrInvalidBounds)
	assert.ErrorIs(t, errs[1], ErrInvalidBounds)
	assert.ErrorIs(t, errs[2], ErrInvalidBounds)
	assert.ErrorIs(t, errs[3], ErrEmptyChoices)
	assert.ErrorIs(t, errs[4], ErrEmptyChoices)

	// Nothing was recorded for the rejected suggestions.
	assert.Empty(t, got.Params)
}

func TestTrialSuggestSameNameOverwrites(t *testing.T) {
	study := newTestStudy(4)

	var second int

	got := runOne(t, study, func(trial *Trial) (float64, error) {
		if _, err := trial.SuggestInt("n", 0, 0); err != nil {
			return 0, err
		}

		var err error
		if second, err = trial.SuggestInt("n", 10, 10); err != nil {
			return 0, err
		}

		return 0, nil
	})

	assert.Equal(t, 10, second)
	require.Len(t, got.Params, 1)
	assert.Equal(t, IntValue(10), got.Params["n"].Value)
	assert.Equal(t, IntUniformDistribution{Low: 10, High: 10}, got.Params["n"].Distribution)
}

func TestTrialHandleIsInvalidAfterObjectiveReturns(t *testing.T) {
	study := newTestStudy(5)

	var kept *Trial

	runOne(t, study, func(trial *Trial) (float64, error) {
		kept = trial

		return 1, nil
	})

	require.NotNil(t, kept)
	assert.Equal(t, 0, kept.ID())

	_, err := kept.SuggestFloat("late", 0, 1)
	assert.ErrorIs(t, err, ErrTrialFinished)

	got, err := study.Storage().Trial(0)
	require.NoError(t, err)
	assert.Empty(t, got.Params)
}

func TestTrialParamsAndContext(t *testing.T) {
	study := newTestStudy(6)

	type key struct{}

	ctx := context.WithValue(context.Background(), key{}, "v")

	err := study.Optimize(ctx, func(trial *Trial) (float64, error) {
		assert.Equal(t, "v", trial.Context().Value(key{}))

		x, err := trial.SuggestFloat("x", 0, 1)
		if err != nil {
			return 0, err
		}

		params, err := trial.Params()
		if err != nil {
			return 0, err
		}

		assert.Equal(t, map[string]Value{"x": FloatValue(x)}, params)

		return x, nil
	}, 1)
	require.NoError(t, err)
}

func TestTrialSuggestRejectsNilDistribution(t *testing.T) {
	study := newTestStudy(7)

	runOne(t, study, func(trial *Trial) (float64, error) {
		_, err := trial.Suggest("x", nil)
		assert.ErrorIs(t, err, ErrUnknownDistribution)

		return 0, nil
	})
}

func TestTrialSuggestRejectsInvalidDistribution(t *testing.T) {
	study := newTestStudy(8)

	got := runOne(t, study, func(trial *Trial) (float64, error) {
		_, err := trial.Suggest("x", UniformDistribution{Low: 1, High: 0})
		assert.ErrorIs(t, err, ErrInvalidBounds)

		_, err = trial.Suggest("c", CategoricalDistribution{})
		assert.ErrorIs(t, err, ErrEmptyChoices)

		return 0, nil
	})

	assert.Empty(t, got.Params)
}
