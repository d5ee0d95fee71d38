// Package linear_model implements the logistic regression classifier used
// both as the pipeline-search operator and as the manually configured
// baseline model.
package linear_model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/core/model"
	"github.com/takara-ml/donorml/pkg/errors"
)

// LogisticRegression is a binary logistic regression classifier trained
// with full-batch gradient descent and optional L2 regularization.
// Deterministic given a fixed random seed.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // Regularization: "l2" or "none"
	c            float64 // Inverse regularization strength (1/lambda)
	fitIntercept bool
	solver       string // Solver: "gd" (full-batch gradient descent)
	maxIter      int
	tol          float64
	randomState  int64

	// Model parameters
	coef      []float64
	intercept float64
	classes   [2]float64
	nIter     int

	rand *rand.Rand
}

// Option is a functional option for LogisticRegression.
type Option func(*LogisticRegression)

// NewLogisticRegression creates a classifier with the reference defaults:
// L2 penalty, C=1.0, gradient-descent solver, at most 1000 iterations.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		fitIntercept: true,
		solver:       "gd",
		maxIter:      1000,
		tol:          1e-4,
		randomState:  -1,
	}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.randomState >= 0 {
		lr.rand = rand.New(rand.NewSource(lr.randomState))
	} else {
		lr.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return lr
}

// WithPenalty sets the regularization type ("l2" or "none").
func WithPenalty(penalty string) Option {
	return func(lr *LogisticRegression) { lr.penalty = penalty }
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithSolver sets the optimization solver.
func WithSolver(solver string) Option {
	return func(lr *LogisticRegression) { lr.solver = solver }
}

// WithMaxIter sets the maximum number of iterations.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithTol sets the tolerance for the stopping criterion.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// WithFitIntercept sets whether to fit an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithRandomState sets the random seed for weight initialization.
func WithRandomState(seed int64) Option {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
		if seed >= 0 {
			lr.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// Fit trains the classifier. y must be an n x 1 matrix with exactly two
// distinct values.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if lr.solver != "gd" {
		return errors.NewValidationError("solver", "unsupported solver", lr.solver)
	}
	if lr.penalty != "l2" && lr.penalty != "none" {
		return errors.NewValidationError("penalty", "must be \"l2\" or \"none\"", lr.penalty)
	}

	if err := lr.extractClasses(y); err != nil {
		return err
	}

	// Small seeded random init keeps runs reproducible for a fixed seed.
	lr.coef = make([]float64, nFeatures)
	for j := range lr.coef {
		lr.coef[j] = lr.rand.NormFloat64() * 0.01
	}
	lr.intercept = 0

	yBinary := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if y.At(i, 0) == lr.classes[1] {
			yBinary[i] = 1.0
		}
	}

	const baseLearningRate = 1.0
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := lr.intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.coef[j]
			}
			residual := sigmoid(z) - yBinary[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.c
			for j := range lr.coef {
				gradWeights[j] += lambda * lr.coef[j] / float64(nSamples)
			}
		}

		gradWeights = errors.ClipGradient(gradWeights, 10.0)
		if err := errors.CheckNumericalStability("gradient_update", gradWeights, iter); err != nil {
			return err
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range lr.coef {
			lr.coef[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			lr.intercept -= learningRate * gradIntercept
		}
		lr.nIter = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter, ""))
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// extractClasses identifies the two class labels, ordered ascending.
func (lr *LogisticRegression) extractClasses(y mat.Matrix) error {
	rows, _ := y.Dims()
	seen := make(map[float64]bool)
	for i := 0; i < rows; i++ {
		seen[y.At(i, 0)] = true
	}
	if len(seen) != 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			"binary classification requires exactly two classes")
	}
	first := true
	for class := range seen {
		if first {
			lr.classes[0] = class
			first = false
		} else {
			lr.classes[1] = class
		}
	}
	if lr.classes[0] > lr.classes[1] {
		lr.classes[0], lr.classes[1] = lr.classes[1], lr.classes[0]
	}
	return nil
}

// Predict returns the predicted class label for each row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if proba.At(i, 1) >= 0.5 {
			predictions.Set(i, 0, lr.classes[1])
		} else {
			predictions.Set(i, 0, lr.classes[0])
		}
	}
	return predictions, nil
}

// PredictProba returns an n x 2 matrix of class probabilities whose rows
// sum to 1. Column 1 holds the positive-class probability.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	fittedFeatures, _ := lr.state.GetDimensions()
	if nFeatures != fittedFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", fittedFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		z := lr.intercept
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * lr.coef[j]
		}
		p := sigmoid(z)
		probas.Set(i, 0, 1.0-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (lr *LogisticRegression) Score(X, y mat.Matrix) float64 {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0.0
	}
	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples)
}

// Classes returns the two class labels in ascending order.
func (lr *LogisticRegression) Classes() [2]float64 {
	return lr.classes
}

// NIter returns the number of gradient-descent iterations actually run.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"solver":        lr.solver,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"random_state":  lr.randomState,
	}
}

// sigmoid computes the logistic function with overflow protection.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-z))
}
