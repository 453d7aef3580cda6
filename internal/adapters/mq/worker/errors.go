package worker

import "errors"

// ErrPlanFailed is set on a Result when the planner panicked.
var ErrPlanFailed = errors.New("plan failed")
