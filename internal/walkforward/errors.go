package walkforward

import "errors"

// Fatal error conditions surfaced by the engine. All of them abort the
// run immediately; there is no retry path in offline batch analysis.
// Callers classify with errors.Is; the engine always wraps these with
// the parameter context that produced them.
var (
	// ErrValidation marks malformed parameters (unknown window type,
	// train fraction outside (0, 1)). Raised before any computation.
	ErrValidation = errors.New("invalid parameter")

	// ErrInsufficientData marks a dataset too short for the requested
	// split count (computed test-fold size is zero).
	ErrInsufficientData = errors.New("not enough bars for requested splits")

	// ErrEmptyInput marks stitching called with zero equity pieces,
	// which indicates an upstream logic error.
	ErrEmptyInput = errors.New("no equity pieces to stitch")

	// ErrNoValidWindows marks a run in which every fold was skipped.
	// The caller should enlarge the dataset or reduce the split count.
	ErrNoValidWindows = errors.New("no valid windows produced")
)
