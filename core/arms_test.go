package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArmSetRejectsEmpty(t *testing.T) {
	_, err := NewArmSet(nil)
	assert.ErrorIs(t, err, ErrNoArms)

	_, err = NewArmSet([]float64{})
	assert.ErrorIs(t, err, ErrNoArms)
}

func TestArmSetAccessors(t *testing.T) {
	arms, err := NewArmSet([]float64{1, 4, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 4, arms.K())
	assert.Equal(t, 4.0, arms.Best())
	assert.Equal(t, 3.0, arms.Mean(2))
	assert.Equal(t, []float64{1, 4, 3, 2}, arms.Means())
}

func TestArmSetImmutable(t *testing.T) {
	input := []float64{1, 2}
	arms, err := NewArmSet(input)
	require.NoError(t, err)

	input[0] = 100
	assert.Equal(t, 1.0, arms.Mean(0))

	arms.Means()[1] = 100
	assert.Equal(t, 2.0, arms.Mean(1))
}
