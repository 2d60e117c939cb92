package core

import (
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RewardModel produces the observed reward for a pulled arm.
type RewardModel interface {
	Observe(arm int) float64
}

// TrueMeanModel returns the arm's true mean as the observed reward on every
// pull. Feedback is deterministic per arm, so a Bernoulli-style update that
// tests reward == 1 only ever sees a success on arms whose true mean is
// exactly 1. This is the reference behavior and the default.
type TrueMeanModel struct {
	arms *ArmSet
}

var _ RewardModel = &TrueMeanModel{}

func NewTrueMeanModel(arms *ArmSet) *TrueMeanModel {
	return &TrueMeanModel{arms: arms}
}

func (m *TrueMeanModel) Observe(arm int) float64 {
	return m.arms.Mean(arm)
}

// BernoulliModel draws a 0/1 reward with success probability equal to the
// arm's true mean. It deviates from the reference feedback and is only used
// when explicitly requested.
type BernoulliModel struct {
	dists []distuv.Bernoulli
}

var _ RewardModel = &BernoulliModel{}

func NewBernoulliModel(arms *ArmSet, seed uint64) (*BernoulliModel, error) {
	src := erand.New(erand.NewSource(seed))
	dists := make([]distuv.Bernoulli, arms.K())
	for i := 0; i < arms.K(); i++ {
		p := arms.Mean(i)
		if p < 0 || p > 1 {
			return nil, ErrInvalidMeans
		}
		dists[i] = distuv.Bernoulli{P: p, Src: src}
	}
	return &BernoulliModel{dists: dists}, nil
}

func (m *BernoulliModel) Observe(arm int) float64 {
	return m.dists[arm].Rand()
}
