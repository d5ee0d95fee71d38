// Package metrics は二値分類器の評価指標を計算する
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/pkg/errors"
)

// ROCAUC はROC曲線の下面積（AUC）を計算する。
// Mann-Whitney統計に基づくランク法で、同点スコアは平均ランクで扱う。
// yTrue は0/1のラベル、yScore は陽性クラスのスコアまたは確率。
func ROCAUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("ROCAUC", "empty vector")
	}
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("ROCAUC", n, yScore.Len(), 0)
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("ROCAUC", "labels must be 0 or 1")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, errors.NewValueError("ROCAUC", "both classes must be present")
	}

	// スコア昇順でランク付け（同点は平均ランク）
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yScore.AtVec(idx[a]) < yScore.AtVec(idx[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && yScore.AtVec(idx[j]) == yScore.AtVec(idx[i]) {
			j++
		}
		avgRank := float64(i+j+1) / 2.0 // 1-based平均ランク
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j
	}

	rankSum := 0.0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSum += ranks[i]
		}
	}

	u := rankSum - float64(nPos)*float64(nPos+1)/2.0
	auc := u / (float64(nPos) * float64(nNeg))

	if err := errors.CheckScalar("ROCAUC", auc, 0); err != nil {
		return 0, err
	}
	return auc, nil
}

// ROCAUCMatrix は列ベクトル形式 (n x 1) の入力に対してAUCを計算する
func ROCAUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	tVec, err := toColumnVec("ROCAUCMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	sVec, err := toColumnVec("ROCAUCMatrix", yScore)
	if err != nil {
		return 0, err
	}
	return ROCAUC(tVec, sVec)
}

// ROCPoint はROC曲線上の1点
type ROCPoint struct {
	FPR       float64
	TPR       float64
	Threshold float64
}

// ROCCurve はスコアの降順に閾値を動かしてROC曲線の点列を返す
func ROCCurve(yTrue, yScore *mat.VecDense) ([]ROCPoint, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ROCCurve", "empty vector")
	}
	if yScore.Len() != n {
		return nil, errors.NewDimensionError("ROCCurve", n, yScore.Len(), 0)
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return nil, errors.NewValueError("ROCCurve", "labels must be 0 or 1")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return nil, errors.NewValueError("ROCCurve", "both classes must be present")
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yScore.AtVec(idx[a]) > yScore.AtVec(idx[b])
	})

	points := []ROCPoint{{FPR: 0, TPR: 0, Threshold: yScore.AtVec(idx[0]) + 1}}
	tp, fp := 0, 0
	for i := 0; i < n; {
		j := i
		threshold := yScore.AtVec(idx[i])
		for j < n && yScore.AtVec(idx[j]) == threshold {
			if yTrue.AtVec(idx[j]) == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		points = append(points, ROCPoint{
			FPR:       float64(fp) / float64(nNeg),
			TPR:       float64(tp) / float64(nPos),
			Threshold: threshold,
		})
		i = j
	}
	return points, nil
}

func toColumnVec(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
