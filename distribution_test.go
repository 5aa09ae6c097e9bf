package minituna

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		make func() error
	}{
		{"uniform ok", nil, func() error { _, err := NewUniformDistribution(0, 1); return err }},
		{"uniform degenerate", nil, func() error { _, err := NewUniformDistribution(2, 2); return err }},
		{"uniform inverted", ErrInvalidBounds, func() error { _, err := NewUniformDistribution(1, 0); return err }},
		{"uniform NaN", ErrInvalidBounds, func() error { _, err := NewUniformDistribution(math.NaN(), 1); return err }},
		{"uniform Inf", ErrInvalidBounds, func() error { _, err := NewUniformDistribution(0, math.Inf(1)); return err }},
		{"log ok", nil, func() error { _, err := NewLogUniformDistribution(1e-5, 1); return err }},
		{"log zero low", ErrInvalidBounds, func() error { _, err := NewLogUniformDistribution(0, 1); return err }},
		{"log negative", ErrInvalidBounds, func() error { _, err := NewLogUniformDistribution(-2, -1); return err }},
		{"log inverted", ErrInvalidBounds, func() error { _, err := NewLogUniformDistribution(2, 1); return err }},
		{"int ok", nil, func() error { _, err := NewIntUniformDistribution(-3, 3); return err }},
		{"int single", nil, func() error { _, err := NewIntUniformDistribution(1, 1); return err }},
		{"int inverted", ErrInvalidBounds, func() error { _, err := NewIntUniformDistribution(2, 1); return err }},
		{"categorical ok", nil, func() error { _, err := NewCategoricalDistribution([]Value{IntValue(1)}); return err }},
		{"categorical empty", ErrEmptyChoices, func() error { _, err := NewCategoricalDistribution(nil); return err }},
		{"categorical zero choice", ErrInvalidValue, func() error { _, err := NewCategoricalDistribution([]Value{{}}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.make()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUniformCodec(t *testing.T) {
	d, err := NewUniformDistribution(0, 10)
	require.NoError(t, err)

	v, err := d.ToExternal(3.25)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(3.25), v)

	internal, err := d.ToInternal(v)
	require.NoError(t, err)
	assert.Equal(t, 3.25, internal)

	_, err = d.ToInternal(IntValue(3))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = d.ToExternal(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLogUniformStoresValueNotLog(t *testing.T) {
	d, err := NewLogUniformDistribution(1e-3, 1)
	require.NoError(t, err)

	v, err := d.ToExternal(0.01)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(0.01), v)

	internal, err := d.ToInternal(FloatValue(0.01))
	require.NoError(t, err)
	assert.Equal(t, 0.01, internal)
}

func TestIntUniformCodecRoundsAndClamps(t *testing.T) {
	d, err := NewIntUniformDistribution(1, 5)
	require.NoError(t, err)

	tests := []struct {
		internal float64
		want     int
	}{
		{3, 3},
		{2.4, 2},
		{2.6, 3},
		{0.2, 1},
		{9, 5},
		{-7, 1},
	}

	for _, tt := range tests {
		v, err := d.ToExternal(tt.internal)
		require.NoError(t, err)
		assert.Equal(t, IntValue(tt.want), v, "internal %v", tt.internal)
	}

	internal, err := d.ToInternal(IntValue(4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, internal)

	_, err = d.ToInternal(FloatValue(4))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCategoricalCodecPreservesOrder(t *testing.T) {
	choices := []Value{StringValue("sgd"), StringValue("adam"), IntValue(3), BoolValue(false)}

	d, err := NewCategoricalDistribution(choices)
	require.NoError(t, err)

	for i, c := range choices {
		v, err := d.ToExternal(float64(i))
		require.NoError(t, err)
		assert.Equal(t, c, v)

		internal, err := d.ToInternal(c)
		require.NoError(t, err)
		assert.Equal(t, float64(i), internal)
	}

	_, err = d.ToExternal(4)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = d.ToExternal(-1)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = d.ToExternal(1.5)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = d.ToInternal(StringValue("rmsprop"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCategoricalCopiesChoices(t *testing.T) {
	choices := []Value{IntValue(1), IntValue(2)}

	d, err := NewCategoricalDistribution(choices)
	require.NoError(t, err)

	choices[0] = IntValue(99)

	assert.Equal(t, IntValue(1), d.Choices[0])
}

func TestDistributionSingle(t *testing.T) {
	assert.True(t, UniformDistribution{Low: 1, High: 1}.Single())
	assert.False(t, UniformDistribution{Low: 1, High: 2}.Single())
	assert.True(t, LogUniformDistribution{Low: 1, High: 1}.Single())
	assert.True(t, IntUniformDistribution{Low: 4, High: 4}.Single())
	assert.True(t, CategoricalDistribution{Choices: []Value{IntValue(1)}}.Single())
	assert.False(t, CategoricalDistribution{Choices: []Value{IntValue(1), IntValue(2)}}.Single())
}

func TestDistributionKindString(t *testing.T) {
	assert.Equal(t, "uniform", KindUniform.String())
	assert.Equal(t, "log_uniform", KindLogUniform.String())
	assert.Equal(t, "int_uniform", KindIntUniform.String())
	assert.Equal(t, "categorical", KindCategorical.String())
}
