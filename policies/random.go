package policies

import (
	"sync/atomic"

	erand "golang.org/x/exp/rand"

	"github.com/banditlab/mabsim/core"
)

// UniformPolicy pulls a uniformly random arm on every trial. It never
// exploits, which makes it the baseline both learners should beat.
type UniformPolicy struct {
	*armState
	rand *erand.Rand
}

var _ core.Policy = &UniformPolicy{}

func NewUniformPolicy(arms *core.ArmSet, seed uint64) *UniformPolicy {
	return &UniformPolicy{
		armState: newArmState(arms),
		rand:     erand.New(erand.NewSource(seed)),
	}
}

func (p *UniformPolicy) Name() string {
	return "Uniform"
}

func (p *UniformPolicy) Select() int {
	return p.rand.Intn(p.k())
}

func (p *UniformPolicy) Update(arm int, reward float64) error {
	if err := p.checkArm(arm); err != nil {
		return err
	}
	p.observe(arm, reward)
	return nil
}

func (p *UniformPolicy) Report() core.Summary {
	sum := 0.0
	for _, v := range p.estimatedMeans {
		sum += v
	}
	avgReward := sum / float64(p.k())
	return core.Summary{
		Policy:    p.Name(),
		AvgReward: avgReward,
		AvgRegret: p.bestTrueMean() - avgReward,
	}
}

type UniformPolicyConstructor struct {
	arms *core.ArmSet
	seed uint64
}

var _ core.PolicyConstructor = &UniformPolicyConstructor{}

func NewUniformPolicyConstructor(arms *core.ArmSet, seed uint64) *UniformPolicyConstructor {
	return &UniformPolicyConstructor{
		arms: arms,
		seed: seed,
	}
}

func (c *UniformPolicyConstructor) NewPolicy() core.Policy {
	seed := atomic.AddUint64(&c.seed, 1)
	return NewUniformPolicy(c.arms, seed)
}
