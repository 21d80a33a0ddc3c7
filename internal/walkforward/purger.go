package walkforward

// MinTrainBars is the smallest purged training range considered
// statistically meaningful. Folds below it are dropped before they
// reach any model.
const MinTrainBars = 20

// Fold holds raw bar-position index sequences for one purged
// cross-validation fold. Yielding positions instead of data slices lets
// the fold compose with arbitrary sample selection downstream.
type Fold struct {
	Train []int
	Test  []int
}

// PurgedSplits plans walk-forward windows and trims the trailing
// purgeBars from each training range, removing samples whose forward
// labels span into the test period. purgeBars should equal the label
// horizon of the external labeling function; the engine never infers
// it.
//
// Folds whose purged training range is shorter than MinTrainBars are
// skipped silently; the caller observes the drop through the length of
// the returned slice, not through an error.
func PurgedSplits(n, nSplits int, trainFrac float64, windowType WindowType, purgeBars int) ([]Fold, error) {
	specs, err := PlanWindows(n, nSplits, trainFrac, windowType)
	if err != nil {
		return nil, err
	}

	folds := make([]Fold, 0, len(specs))
	for _, spec := range specs {
		trainEnd := spec.TrainEnd - purgeBars
		if trainEnd-spec.TrainStart < MinTrainBars {
			continue
		}

		folds = append(folds, Fold{
			Train: indexRange(spec.TrainStart, trainEnd),
			Test:  indexRange(spec.TestStart, spec.TestEnd),
		})
	}

	return folds, nil
}

func indexRange(start, end int) []int {
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}
