package analysis

import (
	"github.com/rs/zerolog"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

// RegretComparator reports the aggregate numbers of a comparison on the
// console: per experiment, the cumulative reward and the cumulative regret
// max(trueMeans)*n - sum(rewards), plus the policy's own summary line.
type RegretComparator struct {
	logger zerolog.Logger
}

var _ core.Comparator = &RegretComparator{}

func NewRegretComparator(logger zerolog.Logger) *RegretComparator {
	return &RegretComparator{logger: logger}
}

func (c *RegretComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	for i, name := range experimentNames {
		if datasets[i] == nil {
			c.logger.Warn().Str("experiment", name).Msg("no dataset, experiment failed")
			continue
		}
		d := datasets[i].(*rewardDataSet)
		n := len(d.Rewards)
		cumulativeReward := util.Sum(d.Rewards)
		cumulativeRegret := d.BestMean*float64(n) - cumulativeReward

		c.logger.Info().
			Str("experiment", name).
			Int("trials", n).
			Float64("cumulative_reward", cumulativeReward).
			Float64("cumulative_regret", cumulativeRegret).
			Msg("comparison aggregates")
		c.logger.Info().Str("experiment", name).Msg(d.Summary.String())
	}
}

type RegretComparatorConstructor struct {
	logger zerolog.Logger
}

var _ core.ComparatorConstructor = &RegretComparatorConstructor{}

func NewRegretComparatorConstructor(logger zerolog.Logger) *RegretComparatorConstructor {
	return &RegretComparatorConstructor{logger: logger}
}

func (c *RegretComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewRegretComparator(c.logger.With().Int("run", run).Logger())
}
