package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gosuri/uilive"
)

var ErrRunCancelled = errors.New("run cancelled")

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

// Result is the outcome of driving one experiment for a full trial budget.
type Result struct {
	CompletedTrials int
	Trace           *Trace
	Summary         Summary

	Error    error
	Datasets map[string]DataSet
}

func (r *Result) IsError() bool {
	return r.Error != nil
}

func (e *Experiment) run(rCtx *experimentRunContext) *Result {
	result := &Result{
		Trace:    NewTrace(),
		Datasets: make(map[string]DataSet),
	}
	writer := rCtx.writer
	if writer == nil {
		writer = io.Discard
	}
	if rCtx.Trials <= 0 {
		result.Error = ErrInvalidTrials
		return result
	}

TrialLoop:
	for trial := 0; trial < rCtx.Trials; trial++ {
		select {
		case <-rCtx.ctx.Done():
			result.Error = ErrRunCancelled
			break TrialLoop
		default:
		}

		if rCtx.ProgressEvery > 0 && trial%rCtx.ProgressEvery == 0 {
			fmt.Fprintf(
				writer,
				"Experiment: %s, Run %d, Trial: %d/%d\n",
				e.Name, rCtx.run, trial, rCtx.Trials,
			)
		}

		arm := e.Policy.Select()
		reward := e.Rewards.Observe(arm)
		if err := e.Policy.Update(arm, reward); err != nil {
			result.Error = err
			break TrialLoop
		}
		result.Trace.AddTrial(&Trial{Arm: arm, Reward: reward})
	}
	result.CompletedTrials = result.Trace.Len()

	if result.Error != nil {
		fmt.Fprintf(writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, rCtx.run, result.Error)
		return result
	}
	result.Summary = e.Policy.Report()

	for _, a := range rCtx.analyzers {
		a.Analyze(e, result.Trace)
	}
	for name, a := range rCtx.analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

// Run drives the experiment on its own for the given number of trials. The
// returned trace has exactly trials entries on success.
func (e *Experiment) Run(ctx context.Context, trials int) (*Result, error) {
	result := e.run(&experimentRunContext{
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		RunConfig: &RunConfig{Trials: trials},
	})
	if result.IsError() {
		return result, result.Error
	}
	return result, nil
}

// Run drives every experiment sequentially, then hands the gathered datasets
// to the comparators. Experiments never share policy state, so order between
// them is irrelevant; order within an experiment is not.
func (c *Comparison) Run(ctx context.Context, rConfig *RunConfig) (map[string]*Result, error) {
	results := make(map[string]*Result)

	writer := uilive.New()
	writer.Start()
	for _, e := range c.Experiments {
		select {
		case <-ctx.Done():
			writer.Stop()
			return results, ErrRunCancelled
		default:
		}
		rCtx := &experimentRunContext{
			ctx:       ctx,
			analyzers: make(map[string]Analyzer),
			writer:    writer.Newline(),
			RunConfig: rConfig,
		}

		for name, a := range c.Analyzers {
			a.Reset()
			rCtx.analyzers[name] = a
		}

		results[e.Name] = e.run(rCtx)
	}
	writer.Stop()

	analyzerNames := make([]string, 0)
	for name := range c.Analyzers {
		analyzerNames = append(analyzerNames, name)
	}
	experimentNames := make([]string, 0, len(c.Experiments))
	for _, e := range c.Experiments {
		experimentNames = append(experimentNames, e.Name)
	}
	c.compare(experimentNames, gatherDatasets(experimentNames, analyzerNames, results))

	for _, result := range results {
		if result.IsError() {
			return results, result.Error
		}
	}
	return results, nil
}

func (c *Comparison) compare(experimentNames []string, datasets map[string][]DataSet) {
	for name, cmp := range c.Comparators {
		cmp.Compare(experimentNames, datasets[name])
	}
}

// gatherDatasets lines up one dataset per experiment, in the order the
// experiments were added, so reporters emit the same layout on every run.
func gatherDatasets(experimentNames []string, analyzerNames []string, results map[string]*Result) map[string][]DataSet {
	datasets := make(map[string][]DataSet)
	for _, name := range experimentNames {
		result, found := results[name]
		for _, aName := range analyzerNames {
			if _, ok := datasets[aName]; !ok {
				datasets[aName] = make([]DataSet, 0)
			}
			if !found || result.IsError() {
				datasets[aName] = append(datasets[aName], nil)
			} else {
				datasets[aName] = append(datasets[aName], result.Datasets[aName])
			}
		}
	}
	return datasets
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	comp       *ParallelComparison
	runNumber  int
	writer     io.Writer
	rConfig    *RunConfig
	wg         *sync.WaitGroup
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *Result
}

// Worker main loop that consumes work from a channel. Every accepted work
// item is run to completion (a cancelled context aborts the trial loop on
// its first check), its result delivered and its WaitGroup released;
// resultsCh has room for every experiment, so the send never blocks.
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for work := range workCh {
		resultsCh <- w.runWork(ctx, work)
		work.wg.Done()
	}
}

// Run an experiment by constructing the experiment context and a fresh policy
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	rCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		writer:    work.writer,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		rCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, work.runNumber)
	}

	// Each run gets a policy with fresh counts and estimates
	exp := &Experiment{
		Name:    work.experiment.Name,
		Arms:    work.experiment.Arms,
		Policy:  work.experiment.Policy.NewPolicy(),
		Rewards: work.experiment.Rewards,
	}

	result := exp.run(rCtx)

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         result,
	}
}

func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) {
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		// Create workers and channels
		wg := new(sync.WaitGroup)
		writer := uilive.New()
		writer.Start()
		fmt.Fprintf(writer, "Run %d\n", run)

		// Both channels hold every experiment of the run, so submission and
		// result delivery never block even when the context is cancelled.
		workCh := make(chan *parallelWork, len(c.Experiments))
		resultsCh := make(chan *parallelResult, len(c.Experiments))

		// Start workers
		workers := make([]*parallelWorker, parallelism)
		for i := 0; i < parallelism; i++ {
			workers[i] = &parallelWorker{id: i}
			go workers[i].run(ctx, workCh, resultsCh)
		}

		results := make(map[string]*Result)

		// Gather results
		var gatherWg sync.WaitGroup
		gatherWg.Add(1)
		go func() {
			defer gatherWg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case result, more := <-resultsCh:
					if !more {
						return
					}
					results[result.experimentName] = result.result
				}
			}
		}()

		// Run experiments by sending work to workers
		for _, e := range c.Experiments {
			wg.Add(1)
			workCh <- &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				rConfig:    rConfig,
				wg:         wg,
				writer:     writer.Newline(),
			}
		}

		// Wait for all work to finish
		wg.Wait()
		close(resultsCh)
		close(workCh)
		gatherWg.Wait()
		writer.Stop()

		analyzerNames := make([]string, 0)
		for name := range c.Analyzers {
			analyzerNames = append(analyzerNames, name)
		}
		experimentNames := make([]string, 0, len(c.Experiments))
		for _, e := range c.Experiments {
			experimentNames = append(experimentNames, e.Name)
		}
		datasets := gatherDatasets(experimentNames, analyzerNames, results)
		for name, cC := range c.Comparators {
			select {
			case <-ctx.Done():
				return
			default:
			}
			cC.NewComparator(run).Compare(experimentNames, datasets[name])
		}
	}
}
