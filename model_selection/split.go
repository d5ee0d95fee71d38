// Package model_selection provides stratified data partitioning and
// cross-validated scoring for binary classification.
package model_selection

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/pkg/errors"
)

// StratifiedShuffleSplit produces a single train/test partition that
// preserves the label proportions of the input within rounding.
// Deterministic for a fixed seed.
type StratifiedShuffleSplit struct {
	TrainRatio float64
	Seed       uint64
}

// NewStratifiedShuffleSplit creates a splitter. trainRatio must lie in (0, 1).
func NewStratifiedShuffleSplit(trainRatio float64, seed uint64) *StratifiedShuffleSplit {
	return &StratifiedShuffleSplit{TrainRatio: trainRatio, Seed: seed}
}

// Split partitions the row indices of y into train and test sets,
// stratified on the label. Both slices are returned in ascending order.
func (s *StratifiedShuffleSplit) Split(y mat.Matrix) (trainIdx, testIdx []int, err error) {
	if s.TrainRatio <= 0 || s.TrainRatio >= 1 {
		return nil, nil, errors.NewValidationError("train_ratio", "must be in (0, 1)", s.TrainRatio)
	}
	nSamples, cols := y.Dims()
	if nSamples == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "donorml: StratifiedShuffleSplit.Split")
	}
	if cols != 1 {
		return nil, nil, errors.NewDimensionError("StratifiedShuffleSplit.Split", 1, cols, 1)
	}

	// Group indices by class.
	classIndices := make(map[float64][]int)
	classOrder := []float64{}
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, ok := classIndices[label]; !ok {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classOrder)

	r := rand.New(rand.NewPCG(s.Seed, s.Seed))
	for _, label := range classOrder {
		indices := classIndices[label]
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	// Take the train share of every class so both partitions keep the
	// original class ratio.
	for _, label := range classOrder {
		indices := classIndices[label]
		nTrain := int(float64(len(indices))*s.TrainRatio + 0.5)
		if nTrain == len(indices) && len(indices) > 1 {
			nTrain--
		}
		if nTrain == 0 && len(indices) > 1 {
			nTrain = 1
		}
		trainIdx = append(trainIdx, indices[:nTrain]...)
		testIdx = append(testIdx, indices[nTrain:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx, nil
}

// CVFold represents a single fold in cross-validation.
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedKFold implements stratified k-fold cross-validation.
// Each fold's test set preserves the class proportions of the input.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(nSplits int, shuffle bool, seed uint64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// Split generates train/test indices for each fold.
func (skf *StratifiedKFold) Split(y mat.Matrix) []CVFold {
	nSamples, _ := y.Dims()

	classIndices := make(map[float64][]int)
	classOrder := []float64{}
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, ok := classIndices[label]; !ok {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classOrder)

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(skf.Seed, skf.Seed))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]CVFold, skf.NSplits)

	// Distribute each class across folds.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		currentIdx := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// Build train sets (all samples not in the fold's test set).
	for i := 0; i < skf.NSplits; i++ {
		testSet := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}
		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
		sort.Ints(folds[i].TestIndices)
	}

	return folds
}

// ExtractSubset returns the rows of X and y selected by indices.
func ExtractSubset(X, y mat.Matrix, indices []int) (mat.Matrix, mat.Matrix) {
	_, nFeatures := X.Dims()
	subX := mat.NewDense(len(indices), nFeatures, nil)
	subY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		subY.Set(i, 0, y.At(idx, 0))
	}
	return subX, subY
}
