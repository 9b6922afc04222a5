package sim

import "errors"

// ErrNegativeRate is returned when a PropensityReaction's ComputeRate
// yields a negative number. It is always fatal: the run aborts.
var ErrNegativeRate = errors.New("sim: reaction rate is negative")

// ErrRunInProgress is returned by AddState/AddPropensityReaction/
// AddDelayedReaction when called while a Run is already executing.
var ErrRunInProgress = errors.New("sim: cannot mutate model while a run is in progress")
