// Package preprocessing は特徴量変換器を提供します。
// 対数変換と軽量なスケーラーのみで、パイプライン探索の前処理演算子としても使われます。
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/core/model"
	"github.com/takara-ml/donorml/pkg/errors"
)

// LogTransformer は指定した列を自然対数に置き換える変換器です。
// 献血量（Monetary）のように他の特徴量より数桁大きい分散を持つ列を
// 安定化させるために使います。入力は厳密に正である必要があります。
type LogTransformer struct {
	model.BaseEstimator

	// Columns は変換対象の列インデックス
	Columns []int

	// NFeatures は学習時の特徴量数
	NFeatures int

	// ColumnNames は診断メッセージ用の列名（省略可）
	ColumnNames []string
}

// NewLogTransformer は新しいLogTransformerを作成する
func NewLogTransformer(columns ...int) *LogTransformer {
	return &LogTransformer{Columns: columns}
}

// WithColumnNames はエラーメッセージに使う列名を設定する
func (t *LogTransformer) WithColumnNames(names []string) *LogTransformer {
	t.ColumnNames = names
	return t
}

// Fit は入力の形状と正値性を検証する
func (t *LogTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LogTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	for _, col := range t.Columns {
		if col < 0 || col >= c {
			return errors.NewDimensionError("LogTransformer.Fit", c, col, 1)
		}
		for i := 0; i < r; i++ {
			if v := X.At(i, col); v <= 0 {
				return errors.NewNonPositiveValueError("LogTransformer.Fit", t.columnName(col), i, v)
			}
		}
	}
	t.NFeatures = c
	t.SetFitted()
	return nil
}

// Transform は対象列を自然対数で置き換えた新しい行列を返す
func (t *LogTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("LogTransformer", "Transform")
	}
	r, c := X.Dims()
	if c != t.NFeatures {
		return nil, errors.NewDimensionError("LogTransformer.Transform", t.NFeatures, c, 1)
	}

	logCols := make(map[int]bool, len(t.Columns))
	for _, col := range t.Columns {
		logCols[col] = true
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if logCols[j] {
				if v <= 0 {
					return nil, errors.NewNonPositiveValueError("LogTransformer.Transform", t.columnName(j), i, v)
				}
				// 正値チェック済み。極端に小さい値でも有限に保つ
				v = errors.StabilizeLog(v)
			}
			result.Set(i, j, v)
		}
	}
	return result, nil
}

// FitTransform は学習と変換を一度に行う
func (t *LogTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// InverseTransform は対数変換された列を指数で元に戻す
func (t *LogTransformer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("LogTransformer", "InverseTransform")
	}
	r, c := X.Dims()
	if c != t.NFeatures {
		return nil, errors.NewDimensionError("LogTransformer.InverseTransform", t.NFeatures, c, 1)
	}

	logCols := make(map[int]bool, len(t.Columns))
	for _, col := range t.Columns {
		logCols[col] = true
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if logCols[j] {
				v = errors.StabilizeExp(v)
			}
			result.Set(i, j, v)
		}
	}
	return result, nil
}

// String は変換器の文字列表現を返す
func (t *LogTransformer) String() string {
	return fmt.Sprintf("LogTransformer(columns=%v)", t.Columns)
}

func (t *LogTransformer) columnName(col int) string {
	if col >= 0 && col < len(t.ColumnNames) {
		return t.ColumnNames[col]
	}
	return fmt.Sprintf("column_%d", col)
}

// Identity は入力をそのまま返す変換器です。
// パイプライン探索で「前処理なし」を表す演算子として使われます。
type Identity struct {
	model.BaseEstimator
	NFeatures int
}

// NewIdentity は新しいIdentityを作成する
func NewIdentity() *Identity {
	return &Identity{}
}

// Fit は特徴量数を記録するのみ
func (t *Identity) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Identity.Fit", "empty data", errors.ErrEmptyData)
	}
	t.NFeatures = c
	t.SetFitted()
	return nil
}

// Transform は入力のコピーを返す
func (t *Identity) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("Identity", "Transform")
	}
	r, c := X.Dims()
	if c != t.NFeatures {
		return nil, errors.NewDimensionError("Identity.Transform", t.NFeatures, c, 1)
	}
	result := mat.NewDense(r, c, nil)
	result.Copy(X)
	return result, nil
}

// FitTransform は学習と変換を一度に行う
func (t *Identity) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// String は変換器の文字列表現を返す
func (t *Identity) String() string { return "Identity()" }
