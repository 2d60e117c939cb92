package analysis

import (
	"path"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

var recordsHeader = []string{"Bandit", "Reward", "Algorithm"}

// RecordsComparator persists one row per trial per policy to a CSV table
// with columns {Bandit, Reward, Algorithm}, truncating any previous file at
// the same location.
type RecordsComparator struct {
	savePath string
	logger   zerolog.Logger
}

var _ core.Comparator = &RecordsComparator{}

func NewRecordsComparator(savePath string, logger zerolog.Logger) *RecordsComparator {
	return &RecordsComparator{
		savePath: path.Join(savePath, "bandit_rewards.csv"),
		logger:   logger,
	}
}

func (c *RecordsComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	rows := make([][]string, 0)
	for i := range experimentNames {
		if datasets[i] == nil {
			continue
		}
		d := datasets[i].(*rewardDataSet)
		label := algorithmLabel(d.Policy)
		for _, reward := range d.Rewards {
			rows = append(rows, []string{
				d.Policy,
				strconv.FormatFloat(reward, 'g', -1, 64),
				label,
			})
		}
	}

	if err := util.SaveCSV(c.savePath, recordsHeader, rows); err != nil {
		c.logger.Error().Err(err).Str("path", c.savePath).Msg("failed to write reward records")
		return
	}
	c.logger.Debug().Str("path", c.savePath).Int("rows", len(rows)).Msg("reward records written")
}

func algorithmLabel(policy string) string {
	switch policy {
	case "EpsilonGreedy":
		return "Epsilon-Greedy"
	case "ThompsonSampling":
		return "Thompson Sampling"
	default:
		return policy
	}
}

type RecordsComparatorConstructor struct {
	savePath string
	logger   zerolog.Logger
}

var _ core.ComparatorConstructor = &RecordsComparatorConstructor{}

func NewRecordsComparatorConstructor(savePath string, logger zerolog.Logger) *RecordsComparatorConstructor {
	return &RecordsComparatorConstructor{
		savePath: savePath,
		logger:   logger,
	}
}

func (c *RecordsComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewRecordsComparator(path.Join(c.savePath, strconv.Itoa(run)), c.logger)
}
