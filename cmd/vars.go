package cmd

import "github.com/spf13/cobra"

var (
	means        []float64
	epsilon      float64
	trials       int
	numRuns      int
	seed         uint64
	savePath     string
	stochastic   bool
	withBaseline bool
	parallelism  int
	logLevel     string
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Float64SliceVar(&means, "means", []float64{1, 2, 3, 4}, "True mean reward per arm")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", 0.2, "Exploration probability for epsilon-greedy")
	cmd.PersistentFlags().IntVar(&trials, "trials", 20000, "Number of trials per experiment")
	cmd.PersistentFlags().IntVar(&numRuns, "runs", 1, "Number of comparison runs")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks a time-based seed)")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", "results", "Path to save results")
	cmd.PersistentFlags().BoolVar(&stochastic, "stochastic", false, "Draw Bernoulli rewards instead of deterministic true-mean feedback")
	cmd.PersistentFlags().BoolVar(&withBaseline, "with-baseline", false, "Include a uniform-random baseline policy")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", 2, "Number of parallel experiment workers")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
}
