package core

import "sync"

// Trial is one select-observe-update cycle.
type Trial struct {
	Arm    int
	Reward float64
}

// Trace is the ordered record of every trial in a run. Order matters: a
// policy's choice at trial t depends on the outcomes of all trials before it.
type Trace struct {
	mtx    *sync.Mutex
	trials []*Trial
}

func NewTrace() *Trace {
	return &Trace{
		trials: make([]*Trial, 0),
		mtx:    &sync.Mutex{},
	}
}

func (t *Trace) AddTrial(tr *Trial) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.trials = append(t.trials, tr)
}

func (t *Trace) Trial(i int) *Trial {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.trials[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.trials)
}

// Rewards returns the flat per-trial reward sequence, one entry per trial in
// trial order. This is the shape reporters consume.
func (t *Trace) Rewards() []float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]float64, len(t.trials))
	for i, tr := range t.trials {
		out[i] = tr.Reward
	}
	return out
}
