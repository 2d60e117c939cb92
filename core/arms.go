package core

import "github.com/banditlab/mabsim/util"

// ArmSet is the fixed vector of true per-arm mean rewards. It is read-only
// input to policies and reward models; accessors copy so no caller can
// mutate the means after construction.
type ArmSet struct {
	means []float64
}

func NewArmSet(means []float64) (*ArmSet, error) {
	if len(means) == 0 {
		return nil, ErrNoArms
	}
	out := make([]float64, len(means))
	copy(out, means)
	return &ArmSet{means: out}, nil
}

// K is the number of arms.
func (a *ArmSet) K() int {
	return len(a.means)
}

// Mean returns the true mean of arm i.
func (a *ArmSet) Mean(i int) float64 {
	return a.means[i]
}

// Means returns a copy of the true means in arm order.
func (a *ArmSet) Means() []float64 {
	out := make([]float64, len(a.means))
	copy(out, a.means)
	return out
}

// Best returns the largest true mean.
func (a *ArmSet) Best() float64 {
	best := a.means[0]
	for _, m := range a.means[1:] {
		best = util.MaxFloat(best, m)
	}
	return best
}
