package core

type DataSet interface{}

type Analyzer interface {
	Analyze(*Experiment, *Trace)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
}

type Comparator interface {
	Compare([]string, []DataSet)
}

type ComparatorConstructor interface {
	NewComparator(int) Comparator
}

// Experiment is one named policy driven against one reward model over a
// shared arm set.
type Experiment struct {
	Name    string
	Arms    *ArmSet
	Policy  Policy
	Rewards RewardModel
}

// Comparison drives a set of experiments over the same trial budget and
// hands the collected reward traces to analyzers and comparators.
type Comparison struct {
	Experiments []*Experiment
	Analyzers   map[string]Analyzer
	Comparators map[string]Comparator
}

func NewComparison() *Comparison {
	return &Comparison{
		Analyzers:   make(map[string]Analyzer),
		Comparators: make(map[string]Comparator),
		Experiments: make([]*Experiment, 0),
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a Analyzer, cmp Comparator) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}

// ParallelExperiment defers construction so each run gets a fresh policy
// with fresh state.
type ParallelExperiment struct {
	Name    string
	Arms    *ArmSet
	Policy  PolicyConstructor
	Rewards RewardModel
}

type ParallelComparison struct {
	Experiments []*ParallelExperiment
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]ComparatorConstructor
}

func NewParallelComparison() *ParallelComparison {
	return &ParallelComparison{
		Analyzers:   make(map[string]AnalyzerConstructor),
		Comparators: make(map[string]ComparatorConstructor),
		Experiments: make([]*ParallelExperiment, 0),
	}
}

func (c *ParallelComparison) AddExperiment(e *ParallelExperiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *ParallelComparison) AddAnalysis(name string, a AnalyzerConstructor, cmp ComparatorConstructor) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}

// RunConfig carries the trial budget for a run. Trials is a hard, finite
// loop bound fixed at call time.
type RunConfig struct {
	Trials int

	// ProgressEvery controls how often the runner refreshes its live
	// progress line. Zero disables progress output.
	ProgressEvery int
}
