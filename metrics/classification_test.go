package metrics

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "all correct",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			name:  "all wrong",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{1, 0, 0, 1},
			want:  0.0,
		},
		{
			name:  "half correct",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 0, 1},
			want:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := Accuracy(yTrue, yPred)
			if err != nil {
				t.Fatalf("Accuracy() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracy_Errors(t *testing.T) {
	if _, err := Accuracy(mat.NewVecDense(2, []float64{0, 1}), mat.NewVecDense(3, []float64{0, 1, 0})); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestAccuracyMatrix(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{0, 1, 1})
	yPred := mat.NewDense(3, 1, []float64{0, 1, 0})

	got, err := AccuracyMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("AccuracyMatrix() error = %v", err)
	}
	want := 2.0 / 3.0
	if got != want {
		t.Errorf("AccuracyMatrix() = %v, want %v", got, want)
	}

	if _, err := AccuracyMatrix(mat.NewDense(3, 2, nil), yPred); err == nil {
		t.Error("expected error for non-column input")
	}
}
