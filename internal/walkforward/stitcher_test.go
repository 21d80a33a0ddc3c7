package walkforward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/internal/domain"
)

func curveAt(startDay int, values ...float64) domain.EquityCurve {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = start.AddDate(0, 0, startDay+i)
	}
	return domain.EquityCurve{Times: times, Values: values}
}

func TestStitchEquity_Empty(t *testing.T) {
	_, err := StitchEquity(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = StitchEquity([]domain.EquityCurve{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestStitchEquity_EmptyPiece(t *testing.T) {
	_, err := StitchEquity([]domain.EquityCurve{curveAt(0, 1.0, 1.1), {}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestStitchEquity_SinglePieceNormalizedOnly(t *testing.T) {
	piece := curveAt(0, 2.0, 2.2, 1.8)

	stitched, err := StitchEquity([]domain.EquityCurve{piece})
	require.NoError(t, err)

	require.Equal(t, 3, stitched.Len())
	assert.Equal(t, 1.0, stitched.Values[0])
	// Relative shape is preserved: scaled by 1/piece[0].
	assert.InDelta(t, 1.1, stitched.Values[1], 1e-12)
	assert.InDelta(t, 0.9, stitched.Values[2], 1e-12)
}

func TestStitchEquity_TwoPiecesCompound(t *testing.T) {
	first := curveAt(0, 1.0, 1.2)  // +20%
	second := curveAt(2, 1.0, 0.9) // -10%

	stitched, err := StitchEquity([]domain.EquityCurve{first, second})
	require.NoError(t, err)

	require.Equal(t, 4, stitched.Len())
	// Final value is the product of each piece's compounded return.
	assert.InDelta(t, 1.2*0.9, stitched.Last(), 1e-12)
	// Seam is continuous in value: the second piece starts where the
	// first one ended.
	assert.InDelta(t, 1.2, stitched.Values[2], 1e-12)
}

func TestStitchEquity_UnnormalizedPieces(t *testing.T) {
	// Pieces not starting at 1.0 are rescaled by their own first value,
	// so only relative shape matters.
	first := curveAt(0, 50.0, 60.0)   // +20%
	second := curveAt(2, 10.0, 10.5)  // +5%
	third := curveAt(4, 200.0, 180.0) // -10%

	stitched, err := StitchEquity([]domain.EquityCurve{first, second, third})
	require.NoError(t, err)

	assert.Equal(t, 1.0, stitched.Values[0])
	assert.InDelta(t, 1.2*1.05*0.9, stitched.Last(), 1e-12)
}

func TestStitchEquity_PreservesOrderAndTimes(t *testing.T) {
	first := curveAt(0, 1.0, 1.1, 1.2)
	second := curveAt(3, 1.0, 1.05)

	stitched, err := StitchEquity([]domain.EquityCurve{first, second})
	require.NoError(t, err)

	require.Len(t, stitched.Times, 5)
	for i := 1; i < len(stitched.Times); i++ {
		assert.True(t, stitched.Times[i].After(stitched.Times[i-1]),
			"stitched timestamps must remain chronological")
	}
}
