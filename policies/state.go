package policies

import (
	"errors"
	"fmt"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

var ErrInvalidEpsilon = errors.New("invalid epsilon value")

// armState is the bookkeeping every policy carries: the true means it was
// constructed with, a running sample-mean estimate per arm, and pull counts.
// All three slices stay length K for the lifetime of the policy, and counts
// only ever increase.
type armState struct {
	trueMeans      []float64
	estimatedMeans []float64
	actionCounts   []int
}

func newArmState(arms *core.ArmSet) *armState {
	return &armState{
		trueMeans:      arms.Means(),
		estimatedMeans: make([]float64, arms.K()),
		actionCounts:   make([]int, arms.K()),
	}
}

func (s *armState) k() int {
	return len(s.trueMeans)
}

func (s *armState) checkArm(arm int) error {
	if arm < 0 || arm >= s.k() {
		return fmt.Errorf("%w: arm %d with %d arms", core.ErrInvalidArm, arm, s.k())
	}
	return nil
}

// observe records one pull of arm and folds the reward into the running
// estimate with the incremental sample-mean update. The divisor is the
// post-increment count.
func (s *armState) observe(arm int, reward float64) {
	s.actionCounts[arm]++
	n := float64(s.actionCounts[arm])
	s.estimatedMeans[arm] += (reward - s.estimatedMeans[arm]) / n
}

func (s *armState) bestTrueMean() float64 {
	best := s.trueMeans[0]
	for _, m := range s.trueMeans[1:] {
		best = util.MaxFloat(best, m)
	}
	return best
}

// argMax returns the index of the first maximal element. The first-index
// tie-break is part of the contract: it affects which arm a greedy policy
// locks onto from a fresh state.
func argMax(vals []float64) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best
}
