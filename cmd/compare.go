package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/banditlab/mabsim/analysis"
	"github.com/banditlab/mabsim/core"
	"github.com/banditlab/mabsim/policies"
)

const progressEvery = 1000

func CompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run epsilon-greedy against Thompson sampling on the same arms",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

			doneCh := make(chan struct{}) // channel for done signal from application

			ctx, cancel := context.WithCancel(context.Background())
			go func() { // start a go-routine
				select { // can wait on multiple channels
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()
			defer close(doneCh)

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			arms, err := core.NewArmSet(means)
			if err != nil {
				return err
			}

			rConfig := &core.RunConfig{
				Trials:        trials,
				ProgressEvery: progressEvery,
			}
			if numRuns <= 1 {
				return runComparison(ctx, arms, rConfig)
			}
			return runParallelComparison(ctx, arms, rConfig)
		},
	}

	return cmd
}

func runComparison(ctx context.Context, arms *core.ArmSet, rConfig *core.RunConfig) error {
	egPolicy, err := policies.NewEpsilonGreedyPolicy(arms, epsilon, seed)
	if err != nil {
		return err
	}
	tsPolicy := policies.NewThompsonSamplingPolicy(arms, seed+1)

	cmp := core.NewComparison()
	model, err := rewardModel(arms, seed+100)
	if err != nil {
		return err
	}
	cmp.AddExperiment(&core.Experiment{
		Name:    egPolicy.Name(),
		Arms:    arms,
		Policy:  egPolicy,
		Rewards: model,
	})
	cmp.AddExperiment(&core.Experiment{
		Name:    tsPolicy.Name(),
		Arms:    arms,
		Policy:  tsPolicy,
		Rewards: model,
	})
	if withBaseline {
		uPolicy := policies.NewUniformPolicy(arms, seed+2)
		cmp.AddExperiment(&core.Experiment{
			Name:    uPolicy.Name(),
			Arms:    arms,
			Policy:  uPolicy,
			Rewards: model,
		})
	}

	cmp.AddAnalysis("regret", analysis.NewRewardAnalyzer(), analysis.NewRegretComparator(logger))
	cmp.AddAnalysis("records", analysis.NewRewardAnalyzer(), analysis.NewRecordsComparator(savePath, logger))
	cmp.AddAnalysis("json", analysis.NewRewardAnalyzer(), analysis.NewJSONComparator(savePath, logger))
	cmp.AddAnalysis("plots", analysis.NewRewardAnalyzer(), analysis.NewPlotComparator(savePath, logger))

	_, err = cmp.Run(ctx, rConfig)
	return err
}

func runParallelComparison(ctx context.Context, arms *core.ArmSet, rConfig *core.RunConfig) error {
	egConstructor, err := policies.NewEpsilonGreedyPolicyConstructor(arms, epsilon, seed)
	if err != nil {
		return err
	}

	cmp := core.NewParallelComparison()
	constructors := map[string]core.PolicyConstructor{
		"EpsilonGreedy":    egConstructor,
		"ThompsonSampling": policies.NewThompsonSamplingPolicyConstructor(arms, seed+1000),
	}
	if withBaseline {
		constructors["Uniform"] = policies.NewUniformPolicyConstructor(arms, seed+2000)
	}
	modelSeed := seed + 100
	for name, c := range constructors {
		model, err := rewardModel(arms, modelSeed)
		if err != nil {
			return err
		}
		modelSeed++
		cmp.AddExperiment(&core.ParallelExperiment{
			Name:    name,
			Arms:    arms,
			Policy:  c,
			Rewards: model,
		})
	}

	cmp.AddAnalysis("regret", analysis.NewRewardAnalyzerConstructor(), analysis.NewRegretComparatorConstructor(logger))
	cmp.AddAnalysis("records", analysis.NewRewardAnalyzerConstructor(), analysis.NewRecordsComparatorConstructor(savePath, logger))
	cmp.AddAnalysis("json", analysis.NewRewardAnalyzerConstructor(), analysis.NewJSONComparatorConstructor(savePath, logger))
	cmp.AddAnalysis("plots", analysis.NewRewardAnalyzerConstructor(), analysis.NewPlotComparatorConstructor(savePath, logger))

	cmp.Run(ctx, numRuns, rConfig, parallelism)
	return nil
}

func rewardModel(arms *core.ArmSet, modelSeed uint64) (core.RewardModel, error) {
	if !stochastic {
		return core.NewTrueMeanModel(arms), nil
	}
	return core.NewBernoulliModel(arms, modelSeed)
}
