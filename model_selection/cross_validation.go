package model_selection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/core/model"
	"github.com/takara-ml/donorml/metrics"
	"github.com/takara-ml/donorml/pkg/errors"
)

// CVResult stores per-fold cross-validation scores.
type CVResult struct {
	TestScores []float64
}

// GetMeanScore returns the mean test score across folds.
func (cv *CVResult) GetMeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, score := range cv.TestScores {
		sum += score
	}
	return sum / float64(len(cv.TestScores))
}

// GetStdScore returns the sample standard deviation of the test scores.
func (cv *CVResult) GetStdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}
	mean := cv.GetMeanScore()
	sumSq := 0.0
	for _, score := range cv.TestScores {
		diff := score - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(cv.TestScores)-1))
}

// CrossValidateAUC trains a fresh classifier per fold using factory and
// scores the positive-class probabilities on the fold's test set with
// ROC AUC. A fold whose fit or scoring fails aborts the whole run.
func CrossValidateAUC(factory func() model.Classifier, X, y mat.Matrix, splitter *StratifiedKFold) (*CVResult, error) {
	folds := splitter.Split(y)
	result := &CVResult{TestScores: make([]float64, len(folds))}

	for i, fold := range folds {
		trainX, trainY := ExtractSubset(X, y, fold.TrainIndices)
		testX, testY := ExtractSubset(X, y, fold.TestIndices)

		clf := factory()
		if err := clf.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "donorml: CrossValidateAUC: fold %d fit", i)
		}

		proba, err := clf.PredictProba(testX)
		if err != nil {
			return nil, errors.Wrapf(err, "donorml: CrossValidateAUC: fold %d predict", i)
		}

		nTest, _ := testX.Dims()
		scores := mat.NewDense(nTest, 1, nil)
		for row := 0; row < nTest; row++ {
			scores.Set(row, 0, proba.At(row, 1))
		}

		auc, err := metrics.ROCAUCMatrix(testY, scores)
		if err != nil {
			return nil, errors.Wrapf(err, "donorml: CrossValidateAUC: fold %d score", i)
		}
		result.TestScores[i] = auc
	}

	return result, nil
}
