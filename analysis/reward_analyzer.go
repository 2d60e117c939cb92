package analysis

import (
	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

type rewardDataSet struct {
	Experiment string
	Policy     string
	BestMean   float64
	Rewards    []float64
	Cumulative []float64
	Summary    core.Summary
}

func (d *rewardDataSet) Copy() *rewardDataSet {
	return &rewardDataSet{
		Experiment: d.Experiment,
		Policy:     d.Policy,
		BestMean:   d.BestMean,
		Rewards:    util.CopyFloatSlice(d.Rewards),
		Cumulative: util.CopyFloatSlice(d.Cumulative),
		Summary:    d.Summary,
	}
}

// RewardAnalyzer captures the flat per-trial reward sequence of a run along
// with its cumulative curve and the policy's own summary.
type RewardAnalyzer struct {
	dataset *rewardDataSet
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	return &RewardAnalyzer{
		dataset: &rewardDataSet{},
	}
}

func (a *RewardAnalyzer) Reset() {
	a.dataset = &rewardDataSet{}
}

func (a *RewardAnalyzer) Analyze(e *core.Experiment, trace *core.Trace) {
	rewards := trace.Rewards()
	a.dataset.Experiment = e.Name
	a.dataset.Policy = e.Policy.Name()
	a.dataset.BestMean = e.Arms.Best()
	a.dataset.Rewards = rewards
	a.dataset.Cumulative = util.CumSum(rewards)
	a.dataset.Summary = e.Policy.Report()
}

func (a *RewardAnalyzer) DataSet() core.DataSet {
	return a.dataset.Copy()
}

type RewardAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor() *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{}
}

func (c *RewardAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewRewardAnalyzer()
}
