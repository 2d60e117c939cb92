package policies

import (
	"sync/atomic"

	erand "golang.org/x/exp/rand"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

// DefaultEpsilon is the exploration probability used when none is given.
const DefaultEpsilon = 0.2

// EpsilonGreedyPolicy explores a uniformly random arm with probability
// epsilon and otherwise exploits the arm with the best running sample mean.
type EpsilonGreedyPolicy struct {
	*armState
	epsilon      float64
	actionValues []float64
	rand         *erand.Rand
}

var _ core.Policy = &EpsilonGreedyPolicy{}

func NewEpsilonGreedyPolicy(arms *core.ArmSet, epsilon float64, seed uint64) (*EpsilonGreedyPolicy, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, ErrInvalidEpsilon
	}
	return newEpsilonGreedyPolicy(arms, epsilon, seed), nil
}

func newEpsilonGreedyPolicy(arms *core.ArmSet, epsilon float64, seed uint64) *EpsilonGreedyPolicy {
	return &EpsilonGreedyPolicy{
		armState:     newArmState(arms),
		epsilon:      epsilon,
		actionValues: make([]float64, arms.K()),
		rand:         erand.New(erand.NewSource(seed)),
	}
}

func (p *EpsilonGreedyPolicy) Name() string {
	return "EpsilonGreedy"
}

func (p *EpsilonGreedyPolicy) Select() int {
	if p.rand.Float64() < p.epsilon {
		return p.rand.Intn(p.k())
	}
	return argMax(p.actionValues)
}

func (p *EpsilonGreedyPolicy) Update(arm int, reward float64) error {
	if err := p.checkArm(arm); err != nil {
		return err
	}
	p.observe(arm, reward)
	n := float64(p.actionCounts[arm])
	p.actionValues[arm] += (reward - p.actionValues[arm]) / n
	return nil
}

// Report averages the K action values unweighted, so untried arms contribute
// zero. Regret is measured against the best true mean.
func (p *EpsilonGreedyPolicy) Report() core.Summary {
	sum := 0.0
	for _, v := range p.actionValues {
		sum += v
	}
	avgReward := sum / float64(p.k())
	return core.Summary{
		Policy:    p.Name(),
		AvgReward: avgReward,
		AvgRegret: p.bestTrueMean() - avgReward,
	}
}

// ActionValues returns a copy of the per-arm running sample means.
func (p *EpsilonGreedyPolicy) ActionValues() []float64 {
	return util.CopyFloatSlice(p.actionValues)
}

// ActionCounts returns a copy of the per-arm pull counts.
func (p *EpsilonGreedyPolicy) ActionCounts() []int {
	return util.CopyIntSlice(p.actionCounts)
}

// EstimatedMeans returns a copy of the shared per-arm estimates.
func (p *EpsilonGreedyPolicy) EstimatedMeans() []float64 {
	return util.CopyFloatSlice(p.estimatedMeans)
}

type EpsilonGreedyPolicyConstructor struct {
	arms    *core.ArmSet
	epsilon float64
	seed    uint64
}

var _ core.PolicyConstructor = &EpsilonGreedyPolicyConstructor{}

func NewEpsilonGreedyPolicyConstructor(arms *core.ArmSet, epsilon float64, seed uint64) (*EpsilonGreedyPolicyConstructor, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, ErrInvalidEpsilon
	}
	return &EpsilonGreedyPolicyConstructor{
		arms:    arms,
		epsilon: epsilon,
		seed:    seed,
	}, nil
}

// NewPolicy hands out a fresh policy with a distinct seed, safe to call from
// parallel workers.
func (c *EpsilonGreedyPolicyConstructor) NewPolicy() core.Policy {
	seed := atomic.AddUint64(&c.seed, 1)
	return newEpsilonGreedyPolicy(c.arms, c.epsilon, seed)
}
