package walkforward

import (
	"fmt"
	"time"

	"github.com/quantfold/walkforward/internal/domain"
)

// StitchEquity chains per-window equity curves multiplicatively into
// one continuous out-of-sample series. Each piece is rescaled to start
// exactly where the previous piece ended, so the stitched curve's total
// compounded return equals the product of each window's own compounded
// return: fold boundaries are seams in volatility, never jumps in
// value.
//
// Pieces must be in fold order and their bar ranges must not overlap.
// The orchestrator upholds that precondition; it is not validated here
// because out-of-order input is indistinguishable from a legitimately
// irregular calendar.
func StitchEquity(pieces []domain.EquityCurve) (domain.EquityCurve, error) {
	if len(pieces) == 0 {
		return domain.EquityCurve{}, ErrEmptyInput
	}

	total := 0
	for i, piece := range pieces {
		if piece.Len() == 0 {
			return domain.EquityCurve{}, fmt.Errorf("%w: piece %d is empty", ErrEmptyInput, i)
		}
		total += piece.Len()
	}

	out := domain.EquityCurve{
		Times:  make([]time.Time, 0, total),
		Values: make([]float64, 0, total),
	}

	anchor := 1.0
	for _, piece := range pieces {
		scale := anchor / piece.First()
		for i, v := range piece.Values {
			out.Times = append(out.Times, piece.Times[i])
			out.Values = append(out.Values, v*scale)
		}
		anchor = out.Values[len(out.Values)-1]
	}

	return out, nil
}
