package model_selection

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/core/model"
	"github.com/takara-ml/donorml/linear_model"
)

// buildLabels returns an n x 1 label column with the first nPos rows positive.
func buildLabels(n, nPos int) *mat.Dense {
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < nPos; i++ {
		y.Set(i, 0, 1)
	}
	return y
}

func TestStratifiedShuffleSplit_Sizes(t *testing.T) {
	y := buildLabels(100, 25)

	splitter := NewStratifiedShuffleSplit(0.8, 42)
	trainIdx, testIdx, err := splitter.Split(y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(trainIdx) != 80 {
		t.Errorf("train size = %d, want 80", len(trainIdx))
	}
	if len(testIdx) != 20 {
		t.Errorf("test size = %d, want 20", len(testIdx))
	}
}

func TestStratifiedShuffleSplit_Stratification(t *testing.T) {
	y := buildLabels(200, 50) // 25% positive

	splitter := NewStratifiedShuffleSplit(0.8, 42)
	trainIdx, testIdx, err := splitter.Split(y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	countPos := func(indices []int) int {
		pos := 0
		for _, idx := range indices {
			if y.At(idx, 0) == 1 {
				pos++
			}
		}
		return pos
	}

	trainRate := float64(countPos(trainIdx)) / float64(len(trainIdx))
	testRate := float64(countPos(testIdx)) / float64(len(testIdx))
	if math.Abs(trainRate-0.25) > 0.02 {
		t.Errorf("train positive rate = %v, want about 0.25", trainRate)
	}
	if math.Abs(testRate-0.25) > 0.02 {
		t.Errorf("test positive rate = %v, want about 0.25", testRate)
	}
}

func TestStratifiedShuffleSplit_DisjointAndComplete(t *testing.T) {
	y := buildLabels(97, 31) // awkward sizes on purpose

	splitter := NewStratifiedShuffleSplit(0.8, 7)
	trainIdx, testIdx, err := splitter.Split(y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	seen := make(map[int]bool, 97)
	for _, idx := range trainIdx {
		if seen[idx] {
			t.Errorf("index %d appears twice", idx)
		}
		seen[idx] = true
	}
	for _, idx := range testIdx {
		if seen[idx] {
			t.Errorf("index %d appears in both partitions", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 97 {
		t.Errorf("partitions cover %d indices, want 97", len(seen))
	}
}

func TestStratifiedShuffleSplit_Deterministic(t *testing.T) {
	y := buildLabels(50, 12)

	first, _, err := NewStratifiedShuffleSplit(0.8, 42).Split(y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	second, _, err := NewStratifiedShuffleSplit(0.8, 42).Split(y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("train sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("index %d differs: %d vs %d", i, first[i], second[i])
		}
	}

	other, _, err := NewStratifiedShuffleSplit(0.8, 43).Split(y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	same := len(other) == len(first)
	if same {
		for i := range first {
			if first[i] != other[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("different seeds produced identical splits")
	}
}

func TestStratifiedShuffleSplit_InvalidRatio(t *testing.T) {
	y := buildLabels(10, 3)
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := NewStratifiedShuffleSplit(ratio, 1).Split(y); err == nil {
			t.Errorf("ratio %v: expected error", ratio)
		}
	}
}

func TestStratifiedKFold_Split(t *testing.T) {
	y := buildLabels(100, 30)

	skf := NewStratifiedKFold(5, true, 42)
	folds := skf.Split(y)

	if len(folds) != 5 {
		t.Fatalf("got %d folds, want 5", len(folds))
	}

	testCount := make(map[int]int, 100)
	for i, fold := range folds {
		if len(fold.TestIndices) != 20 {
			t.Errorf("fold %d test size = %d, want 20", i, len(fold.TestIndices))
		}
		if len(fold.TrainIndices) != 80 {
			t.Errorf("fold %d train size = %d, want 80", i, len(fold.TrainIndices))
		}

		pos := 0
		for _, idx := range fold.TestIndices {
			testCount[idx]++
			if y.At(idx, 0) == 1 {
				pos++
			}
		}
		if pos != 6 {
			t.Errorf("fold %d has %d positives in test, want 6", i, pos)
		}
	}

	// Every sample lands in a test set exactly once.
	for i := 0; i < 100; i++ {
		if testCount[i] != 1 {
			t.Errorf("sample %d appears in %d test sets, want 1", i, testCount[i])
		}
	}
}

func TestCrossValidateAUC(t *testing.T) {
	// Two well-separated clusters so every fold is learnable.
	n := 60
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		offset := 0.0
		if i%3 == 0 {
			offset = 4.0
			y.Set(i, 0, 1)
		}
		X.Set(i, 0, offset+0.1*float64(i%7))
		X.Set(i, 1, offset+0.1*float64(i%5))
	}

	factory := func() model.Classifier {
		return linear_model.NewLogisticRegression(
			linear_model.WithMaxIter(300),
			linear_model.WithRandomState(42),
		)
	}

	result, err := CrossValidateAUC(factory, X, y, NewStratifiedKFold(5, true, 42))
	if err != nil {
		t.Fatalf("CrossValidateAUC() error = %v", err)
	}
	if len(result.TestScores) != 5 {
		t.Fatalf("got %d fold scores, want 5", len(result.TestScores))
	}
	for i, score := range result.TestScores {
		if score < 0 || score > 1 {
			t.Errorf("fold %d AUC = %v, out of [0, 1]", i, score)
		}
	}
	if mean := result.GetMeanScore(); mean < 0.9 {
		t.Errorf("mean AUC = %v, want separable data to score above 0.9", mean)
	}
	if std := result.GetStdScore(); std < 0 {
		t.Errorf("std = %v, must be non-negative", std)
	}
}

func TestCVResult_Stats(t *testing.T) {
	cv := &CVResult{TestScores: []float64{0.6, 0.8, 1.0}}
	if mean := cv.GetMeanScore(); math.Abs(mean-0.8) > 1e-12 {
		t.Errorf("GetMeanScore() = %v, want 0.8", mean)
	}
	if std := cv.GetStdScore(); math.Abs(std-0.2) > 1e-12 {
		t.Errorf("GetStdScore() = %v, want 0.2", std)
	}

	empty := &CVResult{}
	if empty.GetMeanScore() != 0 || empty.GetStdScore() != 0 {
		t.Error("empty result should report zero stats")
	}
}
