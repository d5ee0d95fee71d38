package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/pkg/errors"
)

// Accuracy は正解率（予測がラベルと一致した割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は列ベクトル形式 (n x 1) の入力に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tVec, err := toColumnVec("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	pVec, err := toColumnVec("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(tVec, pVec)
}
