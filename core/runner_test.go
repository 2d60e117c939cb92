package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cyclingPolicy deterministically walks the arms in index order. Selection is
// derived from the pull counts so Select stays free of side effects.
type cyclingPolicy struct {
	k      int
	counts []int
}

func newCyclingPolicy(k int) *cyclingPolicy {
	return &cyclingPolicy{k: k, counts: make([]int, k)}
}

func (p *cyclingPolicy) Name() string { return "Cycling" }

func (p *cyclingPolicy) Select() int {
	total := 0
	for _, c := range p.counts {
		total += c
	}
	return total % p.k
}

func (p *cyclingPolicy) Update(arm int, reward float64) error {
	if arm < 0 || arm >= p.k {
		return ErrInvalidArm
	}
	p.counts[arm]++
	return nil
}

func (p *cyclingPolicy) Report() Summary {
	return Summary{Policy: p.Name()}
}

type cyclingPolicyConstructor struct{ k int }

func (c *cyclingPolicyConstructor) NewPolicy() Policy { return newCyclingPolicy(c.k) }

type failingPolicy struct {
	cyclingPolicy
	failAt int
	err    error
}

func (p *failingPolicy) Update(arm int, reward float64) error {
	if p.failAt == 0 {
		return p.err
	}
	p.failAt--
	return p.cyclingPolicy.Update(arm, reward)
}

type captureAnalyzer struct {
	mtx     sync.Mutex
	rewards []float64
}

func (a *captureAnalyzer) Analyze(_ *Experiment, trace *Trace) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.rewards = trace.Rewards()
}

func (a *captureAnalyzer) DataSet() DataSet {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.rewards
}

func (a *captureAnalyzer) Reset() {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.rewards = nil
}

type captureAnalyzerConstructor struct{}

func (c *captureAnalyzerConstructor) NewAnalyzer(_ string, _ int) Analyzer {
	return &captureAnalyzer{}
}

type captureComparator struct {
	mtx      sync.Mutex
	calls    int
	names    []string
	datasets []DataSet
}

func (c *captureComparator) Compare(names []string, datasets []DataSet) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.calls++
	c.names = names
	c.datasets = datasets
}

type captureComparatorConstructor struct {
	mtx         sync.Mutex
	comparators []*captureComparator
}

func (c *captureComparatorConstructor) NewComparator(_ int) Comparator {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	cmp := &captureComparator{}
	c.comparators = append(c.comparators, cmp)
	return cmp
}

func mustArms(t *testing.T, means ...float64) *ArmSet {
	t.Helper()
	arms, err := NewArmSet(means)
	require.NoError(t, err)
	return arms
}

func TestExperimentRunTraceShape(t *testing.T) {
	arms := mustArms(t, 1, 2, 3, 4)
	exp := &Experiment{
		Name:    "cycling",
		Arms:    arms,
		Policy:  newCyclingPolicy(arms.K()),
		Rewards: NewTrueMeanModel(arms),
	}

	result, err := exp.Run(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, 100, result.CompletedTrials)
	require.Equal(t, 100, result.Trace.Len())
	for i := 0; i < result.Trace.Len(); i++ {
		trial := result.Trace.Trial(i)
		assert.Equal(t, i%4, trial.Arm)
		assert.Equal(t, arms.Mean(trial.Arm), trial.Reward)
	}
	assert.Len(t, result.Trace.Rewards(), 100)
}

func TestExperimentRunInvalidTrials(t *testing.T) {
	arms := mustArms(t, 1, 2)
	exp := &Experiment{
		Name:    "cycling",
		Arms:    arms,
		Policy:  newCyclingPolicy(arms.K()),
		Rewards: NewTrueMeanModel(arms),
	}

	for _, trials := range []int{0, -5} {
		_, err := exp.Run(context.Background(), trials)
		assert.ErrorIs(t, err, ErrInvalidTrials)
	}
}

func TestExperimentRunCancelled(t *testing.T) {
	arms := mustArms(t, 1, 2)
	exp := &Experiment{
		Name:    "cycling",
		Arms:    arms,
		Policy:  newCyclingPolicy(arms.K()),
		Rewards: NewTrueMeanModel(arms),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := exp.Run(ctx, 100)
	assert.ErrorIs(t, err, ErrRunCancelled)
}

func TestExperimentRunStopsOnUpdateError(t *testing.T) {
	arms := mustArms(t, 1, 2)
	boom := errors.New("boom")
	exp := &Experiment{
		Name: "failing",
		Arms: arms,
		Policy: &failingPolicy{
			cyclingPolicy: *newCyclingPolicy(arms.K()),
			failAt:        10,
			err:           boom,
		},
		Rewards: NewTrueMeanModel(arms),
	}

	result, err := exp.Run(context.Background(), 100)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, result.Trace.Len())
}

func TestComparisonRunPipeline(t *testing.T) {
	armsA := mustArms(t, 1, 2)
	armsB := mustArms(t, 3, 4, 5)

	cmp := NewComparison()
	cmp.AddExperiment(&Experiment{
		Name:    "a",
		Arms:    armsA,
		Policy:  newCyclingPolicy(armsA.K()),
		Rewards: NewTrueMeanModel(armsA),
	})
	cmp.AddExperiment(&Experiment{
		Name:    "b",
		Arms:    armsB,
		Policy:  newCyclingPolicy(armsB.K()),
		Rewards: NewTrueMeanModel(armsB),
	})

	capture := &captureComparator{}
	cmp.AddAnalysis("trace", &captureAnalyzer{}, capture)

	results, err := cmp.Run(context.Background(), &RunConfig{Trials: 50})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 50, results["a"].CompletedTrials)
	assert.Equal(t, 50, results["b"].CompletedTrials)

	assert.Equal(t, 1, capture.calls)
	assert.Equal(t, []string{"a", "b"}, capture.names)
	for _, ds := range capture.datasets {
		require.NotNil(t, ds)
		assert.Len(t, ds.([]float64), 50)
	}
}

func TestParallelComparisonRun(t *testing.T) {
	arms := mustArms(t, 1, 2, 3)

	cmp := NewParallelComparison()
	cmp.AddExperiment(&ParallelExperiment{
		Name:    "a",
		Arms:    arms,
		Policy:  &cyclingPolicyConstructor{k: arms.K()},
		Rewards: NewTrueMeanModel(arms),
	})
	cmp.AddExperiment(&ParallelExperiment{
		Name:    "b",
		Arms:    arms,
		Policy:  &cyclingPolicyConstructor{k: arms.K()},
		Rewards: NewTrueMeanModel(arms),
	})

	comparators := &captureComparatorConstructor{}
	cmp.AddAnalysis("trace", &captureAnalyzerConstructor{}, comparators)

	cmp.Run(context.Background(), 2, &RunConfig{Trials: 30}, 2)

	require.Len(t, comparators.comparators, 2)
	for _, capture := range comparators.comparators {
		assert.Equal(t, 1, capture.calls)
		assert.Equal(t, []string{"a", "b"}, capture.names)
		for _, ds := range capture.datasets {
			require.NotNil(t, ds)
			assert.Len(t, ds.([]float64), 30)
		}
	}
}

func TestComparisonRunKeepsExperimentOrder(t *testing.T) {
	arms := mustArms(t, 1, 2)

	cmp := NewComparison()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		cmp.AddExperiment(&Experiment{
			Name:    name,
			Arms:    arms,
			Policy:  newCyclingPolicy(arms.K()),
			Rewards: NewTrueMeanModel(arms),
		})
	}
	capture := &captureComparator{}
	cmp.AddAnalysis("trace", &captureAnalyzer{}, capture)

	_, err := cmp.Run(context.Background(), &RunConfig{Trials: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, capture.names)
}

func TestParallelComparisonRunKeepsExperimentOrder(t *testing.T) {
	arms := mustArms(t, 1, 2)

	cmp := NewParallelComparison()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		cmp.AddExperiment(&ParallelExperiment{
			Name:    name,
			Arms:    arms,
			Policy:  &cyclingPolicyConstructor{k: arms.K()},
			Rewards: NewTrueMeanModel(arms),
		})
	}
	comparators := &captureComparatorConstructor{}
	cmp.AddAnalysis("trace", &captureAnalyzerConstructor{}, comparators)

	cmp.Run(context.Background(), 1, &RunConfig{Trials: 10}, 2)

	require.Len(t, comparators.comparators, 1)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, comparators.comparators[0].names)
}

// slowRewardModel delays every observation so a run stays in flight long
// enough to be cancelled.
type slowRewardModel struct {
	arms  *ArmSet
	delay time.Duration
}

func (m *slowRewardModel) Observe(arm int) float64 {
	time.Sleep(m.delay)
	return m.arms.Mean(arm)
}

func TestParallelComparisonRunReturnsAfterCancel(t *testing.T) {
	arms := mustArms(t, 1, 2)

	cmp := NewParallelComparison()
	for _, name := range []string{"a", "b"} {
		cmp.AddExperiment(&ParallelExperiment{
			Name:    name,
			Arms:    arms,
			Policy:  &cyclingPolicyConstructor{k: arms.K()},
			Rewards: &slowRewardModel{arms: arms, delay: time.Millisecond},
		})
	}
	cmp.AddAnalysis("trace", &captureAnalyzerConstructor{}, &captureComparatorConstructor{})

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	go func() {
		cmp.Run(ctx, 1, &RunConfig{Trials: 1 << 20}, 2)
		close(doneCh)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
