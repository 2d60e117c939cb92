package policies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

// With epsilon 0 and deterministic true-mean feedback the policy locks onto
// arm 0: the fresh all-zero estimates tie-break there, the first reward fixes
// its value at 1, and no other arm is ever tried.
func TestGreedyLockInEndToEnd(t *testing.T) {
	arms := mustArms(t, 1, 2, 3, 4)
	p, err := NewEpsilonGreedyPolicy(arms, 0, 1)
	require.NoError(t, err)

	exp := &core.Experiment{
		Name:    p.Name(),
		Arms:    arms,
		Policy:  p,
		Rewards: core.NewTrueMeanModel(arms),
	}
	result, err := exp.Run(context.Background(), 100)
	require.NoError(t, err)

	rewards := result.Trace.Rewards()
	require.Len(t, rewards, 100)
	for _, r := range rewards {
		assert.Contains(t, []float64{1, 2, 3, 4}, r)
		assert.Equal(t, 1.0, r)
	}
	assert.Equal(t, []int{100, 0, 0, 0}, p.ActionCounts())
	assert.Equal(t, []float64{1, 0, 0, 0}, p.ActionValues())
}

// Deterministic feedback pins every tried arm's running mean to its true
// mean exactly, whatever the exploration schedule visited.
func TestExploringGreedyConvergesToTrueMeans(t *testing.T) {
	arms := mustArms(t, 1, 2, 3, 4)
	p, err := NewEpsilonGreedyPolicy(arms, 0.3, 42)
	require.NoError(t, err)

	exp := &core.Experiment{
		Name:    p.Name(),
		Arms:    arms,
		Policy:  p,
		Rewards: core.NewTrueMeanModel(arms),
	}
	result, err := exp.Run(context.Background(), 1000)
	require.NoError(t, err)
	require.Equal(t, 1000, result.Trace.Len())

	counts := p.ActionCounts()
	values := p.ActionValues()
	total := 0
	for i := range counts {
		total += counts[i]
		if counts[i] > 0 {
			assert.Equal(t, arms.Mean(i), values[i])
		}
	}
	assert.Equal(t, 1000, total)
}

func TestCumulativeRegretNonNegative(t *testing.T) {
	arms := mustArms(t, 1, 2, 3, 4)
	p := NewThompsonSamplingPolicy(arms, 7)

	exp := &core.Experiment{
		Name:    p.Name(),
		Arms:    arms,
		Policy:  p,
		Rewards: core.NewTrueMeanModel(arms),
	}
	result, err := exp.Run(context.Background(), 500)
	require.NoError(t, err)

	rewards := result.Trace.Rewards()
	for _, r := range rewards {
		require.LessOrEqual(t, r, arms.Best())
	}
	regret := arms.Best()*float64(len(rewards)) - util.Sum(rewards)
	assert.GreaterOrEqual(t, regret, 0.0)
}
