package core

import "errors"

var (
	// ErrInvalidArm is returned when an update names an arm outside [0, K).
	// Arm indices are never clamped: a bad index would corrupt the count
	// invariants, so it is fatal to the run.
	ErrInvalidArm = errors.New("arm index out of range")

	ErrNoArms        = errors.New("arm set must contain at least one arm")
	ErrInvalidTrials = errors.New("number of trials must be positive")
	ErrInvalidMeans  = errors.New("bernoulli rewards need true means in [0,1]")
)
