package core

import "fmt"

// Policy is one arm-selection strategy over a fixed ArmSet. A policy owns
// its mutable state exclusively; counts only ever increase and only Update
// mutates them. Select must not change any state.
type Policy interface {
	Name() string
	Select() int
	Update(arm int, reward float64) error
	Report() Summary
}

type PolicyConstructor interface {
	NewPolicy() Policy
}

// Summary is the aggregate a policy reports at the end of a run.
type Summary struct {
	Policy    string
	AvgReward float64
	AvgRegret float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%s Results: Average Reward=%.2f, Average Regret=%.2f", s.Policy, s.AvgReward, s.AvgRegret)
}
