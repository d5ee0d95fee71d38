// Package automl implements a population-based search over small
// preprocessing + classifier pipelines, optimizing cross-validated ROC AUC.
//
// The search space is deliberately restricted: a scaling operator (or none)
// followed by a logistic regression classifier. No feature selection and no
// tree ensembles.
package automl

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/core/model"
	"github.com/takara-ml/donorml/linear_model"
	"github.com/takara-ml/donorml/pkg/errors"
	"github.com/takara-ml/donorml/preprocessing"
)

// Operator identifies a preprocessing operator in the search space.
type Operator string

const (
	OpIdentity       Operator = "identity"
	OpStandardScaler Operator = "standard_scaler"
	OpMinMaxScaler   Operator = "minmax_scaler"
)

// Candidate is the genome of one pipeline configuration.
type Candidate struct {
	Op      Operator
	C       float64
	MaxIter int
	Tol     float64
}

// String renders the candidate in a compact readable form.
func (c Candidate) String() string {
	return fmt.Sprintf("%s + LogisticRegression(C=%g, max_iter=%d, tol=%g)",
		c.Op, c.C, c.MaxIter, c.Tol)
}

// Pipeline is a fitted or fittable preprocessing + classifier chain.
// It satisfies model.Classifier, so it scores exactly like the baseline.
type Pipeline struct {
	candidate Candidate
	scaler    model.Transformer
	clf       *linear_model.LogisticRegression
	seed      int64
}

// NewPipeline materializes a candidate into a trainable pipeline.
// The seed makes the classifier's weight initialization reproducible.
func NewPipeline(c Candidate, seed int64) (*Pipeline, error) {
	var scaler model.Transformer
	switch c.Op {
	case OpIdentity:
		scaler = preprocessing.NewIdentity()
	case OpStandardScaler:
		scaler = preprocessing.NewStandardScaler()
	case OpMinMaxScaler:
		scaler = preprocessing.NewMinMaxScaler()
	default:
		return nil, errors.NewValidationError("operator", "unknown preprocessing operator", string(c.Op))
	}

	clf := linear_model.NewLogisticRegression(
		linear_model.WithC(c.C),
		linear_model.WithMaxIter(c.MaxIter),
		linear_model.WithTol(c.Tol),
		linear_model.WithRandomState(seed),
	)

	return &Pipeline{candidate: c, scaler: scaler, clf: clf, seed: seed}, nil
}

// Candidate returns the configuration this pipeline was built from.
func (p *Pipeline) Candidate() Candidate {
	return p.candidate
}

// Fit fits the preprocessing operator on X and then the classifier on the
// transformed features.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	transformed, err := p.scaler.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "donorml: Pipeline.Fit: transform")
	}
	if err := p.clf.Fit(transformed, y); err != nil {
		return errors.Wrap(err, "donorml: Pipeline.Fit: classifier")
	}
	return nil
}

// Predict returns class labels for X.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	transformed, err := p.scaler.Transform(X)
	if err != nil {
		return nil, errors.Wrap(err, "donorml: Pipeline.Predict: transform")
	}
	return p.clf.Predict(transformed)
}

// PredictProba returns class probabilities for X.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	transformed, err := p.scaler.Transform(X)
	if err != nil {
		return nil, errors.Wrap(err, "donorml: Pipeline.PredictProba: transform")
	}
	return p.clf.PredictProba(transformed)
}

// String renders the pipeline configuration.
func (p *Pipeline) String() string {
	return p.candidate.String()
}
