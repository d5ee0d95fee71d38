package automl

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// twoClusterData returns linearly separable training data.
func twoClusterData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0.1, 0.2,
		0.3, 0.1,
		0.2, 0.4,
		0.4, 0.3,
		3.1, 3.2,
		3.3, 3.0,
		3.0, 3.4,
		3.2, 3.1,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestNewPipeline_Operators(t *testing.T) {
	for _, op := range []Operator{OpIdentity, OpStandardScaler, OpMinMaxScaler} {
		t.Run(string(op), func(t *testing.T) {
			c := Candidate{Op: op, C: 1.0, MaxIter: 200, Tol: 1e-4}
			pipe, err := NewPipeline(c, 42)
			if err != nil {
				t.Fatalf("NewPipeline() error = %v", err)
			}

			X, y := twoClusterData()
			if err := pipe.Fit(X, y); err != nil {
				t.Fatalf("Fit() error = %v", err)
			}

			preds, err := pipe.Predict(X)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			for i := 0; i < 8; i++ {
				if preds.At(i, 0) != y.At(i, 0) {
					t.Errorf("sample %d: predicted %v, want %v", i, preds.At(i, 0), y.At(i, 0))
				}
			}

			probas, err := pipe.PredictProba(X)
			if err != nil {
				t.Fatalf("PredictProba() error = %v", err)
			}
			r, cols := probas.Dims()
			if r != 8 || cols != 2 {
				t.Errorf("probas shape = (%d, %d), want (8, 2)", r, cols)
			}
		})
	}
}

func TestNewPipeline_UnknownOperator(t *testing.T) {
	_, err := NewPipeline(Candidate{Op: Operator("pca"), C: 1, MaxIter: 100, Tol: 1e-4}, 1)
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestCandidate_String(t *testing.T) {
	c := Candidate{Op: OpStandardScaler, C: 0.5, MaxIter: 500, Tol: 1e-4}
	s := c.String()
	for _, want := range []string{"standard_scaler", "C=0.5", "max_iter=500", "tol=0.0001"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
