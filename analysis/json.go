package analysis

import (
	"path"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/util"
)

// JSONComparator dumps the raw reward datasets of a comparison to a single
// JSON file, keyed by experiment name.
type JSONComparator struct {
	savePath string
	logger   zerolog.Logger
}

var _ core.Comparator = &JSONComparator{}

func NewJSONComparator(savePath string, logger zerolog.Logger) *JSONComparator {
	return &JSONComparator{
		savePath: path.Join(savePath, "rewards.json"),
		logger:   logger,
	}
}

func (c *JSONComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*rewardDataSet)
	for i, name := range experimentNames {
		if datasets[i] == nil {
			continue
		}
		out[name] = datasets[i].(*rewardDataSet)
	}

	if err := util.SaveJson(c.savePath, out); err != nil {
		c.logger.Error().Err(err).Str("path", c.savePath).Msg("failed to write reward datasets")
	}
}

type JSONComparatorConstructor struct {
	savePath string
	logger   zerolog.Logger
}

var _ core.ComparatorConstructor = &JSONComparatorConstructor{}

func NewJSONComparatorConstructor(savePath string, logger zerolog.Logger) *JSONComparatorConstructor {
	return &JSONComparatorConstructor{
		savePath: savePath,
		logger:   logger,
	}
}

func (c *JSONComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewJSONComparator(path.Join(c.savePath, strconv.Itoa(run)), c.logger)
}
