package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for feature transformations that learn
// statistics from training data and apply them to new data.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the interface for binary classifiers that expose
// probability estimates.
type Classifier interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}
