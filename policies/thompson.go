package policies

import (
	"sync/atomic"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

// ThompsonSamplingPolicy keeps a Beta(alpha, beta) belief per arm and selects
// by sampling every belief and taking the best draw. Updates apply the
// Bernoulli conjugate rule: a reward of exactly 1 counts as a success,
// anything else as a failure, even for non-binary rewards.
type ThompsonSamplingPolicy struct {
	*armState
	alpha []int
	beta  []int
	rand  *erand.Rand
}

var _ core.Policy = &ThompsonSamplingPolicy{}

func NewThompsonSamplingPolicy(arms *core.ArmSet, seed uint64) *ThompsonSamplingPolicy {
	alpha := make([]int, arms.K())
	beta := make([]int, arms.K())
	for i := range alpha {
		alpha[i] = 1
		beta[i] = 1
	}
	return &ThompsonSamplingPolicy{
		armState: newArmState(arms),
		alpha:    alpha,
		beta:     beta,
		rand:     erand.New(erand.NewSource(seed)),
	}
}

func (p *ThompsonSamplingPolicy) Name() string {
	return "ThompsonSampling"
}

func (p *ThompsonSamplingPolicy) Select() int {
	samples := make([]float64, p.k())
	for i := range samples {
		dist := distuv.Beta{
			Alpha: float64(p.alpha[i]),
			Beta:  float64(p.beta[i]),
			Src:   p.rand,
		}
		samples[i] = dist.Rand()
	}
	return argMax(samples)
}

func (p *ThompsonSamplingPolicy) Update(arm int, reward float64) error {
	if err := p.checkArm(arm); err != nil {
		return err
	}
	p.observe(arm, reward)
	if reward == 1 {
		p.alpha[arm]++
	} else {
		p.beta[arm]++
	}
	return nil
}

// Report pools the pseudo-counts across arms: the average reward is the
// posterior success fraction sum(alpha) / (sum(alpha) + sum(beta)).
func (p *ThompsonSamplingPolicy) Report() core.Summary {
	sumAlpha, sumBeta := 0, 0
	for i := range p.alpha {
		sumAlpha += p.alpha[i]
		sumBeta += p.beta[i]
	}
	avgReward := float64(sumAlpha) / float64(sumAlpha+sumBeta)
	return core.Summary{
		Policy:    p.Name(),
		AvgReward: avgReward,
		AvgRegret: p.bestTrueMean() - avgReward,
	}
}

// Alpha returns a copy of the per-arm success pseudo-counts.
func (p *ThompsonSamplingPolicy) Alpha() []int {
	return util.CopyIntSlice(p.alpha)
}

// Beta returns a copy of the per-arm failure pseudo-counts.
func (p *ThompsonSamplingPolicy) Beta() []int {
	return util.CopyIntSlice(p.beta)
}

// ActionCounts returns a copy of the per-arm pull counts.
func (p *ThompsonSamplingPolicy) ActionCounts() []int {
	return util.CopyIntSlice(p.actionCounts)
}

type ThompsonSamplingPolicyConstructor struct {
	arms *core.ArmSet
	seed uint64
}

var _ core.PolicyConstructor = &ThompsonSamplingPolicyConstructor{}

func NewThompsonSamplingPolicyConstructor(arms *core.ArmSet, seed uint64) *ThompsonSamplingPolicyConstructor {
	return &ThompsonSamplingPolicyConstructor{
		arms: arms,
		seed: seed,
	}
}

func (c *ThompsonSamplingPolicyConstructor) NewPolicy() core.Policy {
	seed := atomic.AddUint64(&c.seed, 1)
	return NewThompsonSamplingPolicy(c.arms, seed)
}
