package pipeline

import "errors"

// Error kinds the driver distinguishes when deciding its exit code.
var (
	ErrInputInvalid     = errors.New("pipeline: input invalid")
	ErrOptimizerUnknown = errors.New("pipeline: optimizer unknown")
	ErrResultIsNoop     = errors.New("pipeline: result is noop")
)
