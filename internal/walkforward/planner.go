// Package walkforward implements sequential out-of-sample validation of
// trading strategies: chronological window planning, label purging,
// lagged signal-to-equity conversion, and multiplicative stitching of
// per-window equity curves into one continuous OOS series.
package walkforward

import (
	"fmt"
	"math"
)

// WindowType selects how the training range of each fold is formed.
type WindowType string

const (
	// WindowRolling keeps the training range at a fixed size relative
	// to the test range and slides it forward with each fold.
	WindowRolling WindowType = "rolling"

	// WindowAnchored always starts the training range at the beginning
	// of history, so it grows with each fold.
	WindowAnchored WindowType = "anchored"
)

// Valid reports whether w is a recognized window type.
func (w WindowType) Valid() bool {
	return w == WindowRolling || w == WindowAnchored
}

// WindowSpec holds the four bar-offset boundaries of one fold, with
// train ranges half-open [TrainStart, TrainEnd) and test ranges
// half-open [TestStart, TestEnd). Immutable once planned.
type WindowSpec struct {
	TrainStart int
	TrainEnd   int
	TestStart  int
	TestEnd    int
}

// TrainLen returns the number of training bars in the spec.
func (s WindowSpec) TrainLen() int {
	return s.TrainEnd - s.TrainStart
}

// TestLen returns the number of test bars in the spec.
func (s WindowSpec) TestLen() int {
	return s.TestEnd - s.TestStart
}

// PlanWindows computes the fold boundaries for a walk-forward run over
// n bars. Test ranges are contiguous, non-overlapping, and
// chronologically increasing, each covering exactly n/(nSplits+1) bars.
// The trailing n mod (nSplits+1) bars are never assigned to a test
// range; stretching the final fold to absorb them would give it a
// different statistical weight than its peers.
//
// trainFrac is the fraction of a combined train+test span used for
// training and is only meaningful for rolling windows.
func PlanWindows(n, nSplits int, trainFrac float64, windowType WindowType) ([]WindowSpec, error) {
	if !windowType.Valid() {
		return nil, fmt.Errorf("%w: window_type must be %q or %q, got %q",
			ErrValidation, WindowRolling, WindowAnchored, windowType)
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, fmt.Errorf("%w: train_frac must be in (0, 1), got %v", ErrValidation, trainFrac)
	}
	if nSplits < 1 {
		return nil, fmt.Errorf("%w: n_splits must be >= 1, got %d", ErrValidation, nSplits)
	}

	testSize := n / (nSplits + 1)
	if testSize < 1 {
		return nil, fmt.Errorf("%w: %d bars cannot support %d splits", ErrInsufficientData, n, nSplits)
	}

	specs := make([]WindowSpec, 0, nSplits)
	for k := 0; k < nSplits; k++ {
		testStart := (k + 1) * testSize
		testEnd := testStart + testSize
		if testEnd > n {
			testEnd = n
		}

		var trainStart int
		if windowType == WindowRolling {
			trainBars := int(math.Round(trainFrac / (1 - trainFrac) * float64(testSize)))
			trainStart = testStart - trainBars
			if trainStart < 0 {
				trainStart = 0
			}
		}

		specs = append(specs, WindowSpec{
			TrainStart: trainStart,
			TrainEnd:   testStart,
			TestStart:  testStart,
			TestEnd:    testEnd,
		})
	}

	return specs, nil
}
