package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []float64
		yScore []float64
		want   float64
	}{
		{
			name:   "perfect ranking",
			yTrue:  []float64{0, 0, 1, 1},
			yScore: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.75,
		},
		{
			name:   "perfect separation",
			yTrue:  []float64{0, 0, 1, 1},
			yScore: []float64{0.1, 0.2, 0.8, 0.9},
			want:   1.0,
		},
		{
			name:   "completely reversed",
			yTrue:  []float64{0, 0, 1, 1},
			yScore: []float64{0.9, 0.8, 0.2, 0.1},
			want:   0.0,
		},
		{
			name:   "all scores tied",
			yTrue:  []float64{0, 1, 0, 1},
			yScore: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "partial ties",
			yTrue:  []float64{0, 0, 1, 1},
			yScore: []float64{0.3, 0.5, 0.5, 0.9},
			want:   0.875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yScore := mat.NewVecDense(len(tt.yScore), tt.yScore)

			got, err := ROCAUC(yTrue, yScore)
			if err != nil {
				t.Fatalf("ROCAUC() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("ROCAUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCAUC_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []float64
		yScore []float64
	}{
		{
			name:   "length mismatch",
			yTrue:  []float64{0, 1, 1},
			yScore: []float64{0.1, 0.9},
		},
		{
			name:   "only positives",
			yTrue:  []float64{1, 1, 1},
			yScore: []float64{0.1, 0.5, 0.9},
		},
		{
			name:   "only negatives",
			yTrue:  []float64{0, 0, 0},
			yScore: []float64{0.1, 0.5, 0.9},
		},
		{
			name:   "non-binary labels",
			yTrue:  []float64{0, 1, 2},
			yScore: []float64{0.1, 0.5, 0.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yScore := mat.NewVecDense(len(tt.yScore), tt.yScore)

			if _, err := ROCAUC(yTrue, yScore); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestROCAUC_InvariantToMonotoneTransform(t *testing.T) {
	// AUC depends only on the ranking of scores, not their magnitude.
	yTrue := mat.NewVecDense(6, []float64{0, 1, 0, 1, 1, 0})
	raw := []float64{0.2, 0.7, 0.1, 0.9, 0.6, 0.4}

	scaled := make([]float64, len(raw))
	for i, v := range raw {
		scaled[i] = 100*v + 3
	}

	aucRaw, err := ROCAUC(yTrue, mat.NewVecDense(6, raw))
	if err != nil {
		t.Fatalf("ROCAUC() error = %v", err)
	}
	aucScaled, err := ROCAUC(yTrue, mat.NewVecDense(6, scaled))
	if err != nil {
		t.Fatalf("ROCAUC() error = %v", err)
	}
	if aucRaw != aucScaled {
		t.Errorf("AUC changed under monotone transform: %v != %v", aucRaw, aucScaled)
	}
}

func TestROCCurve(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 0, 1, 1})
	yScore := mat.NewVecDense(4, []float64{0.1, 0.4, 0.35, 0.8})

	points, err := ROCCurve(yTrue, yScore)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}
	if len(points) < 2 {
		t.Fatalf("expected at least 2 ROC points, got %d", len(points))
	}

	first := points[0]
	last := points[len(points)-1]
	if first.FPR != 0 || first.TPR != 0 {
		t.Errorf("curve should start at (0, 0), got (%v, %v)", first.FPR, first.TPR)
	}
	if last.FPR != 1 || last.TPR != 1 {
		t.Errorf("curve should end at (1, 1), got (%v, %v)", last.FPR, last.TPR)
	}

	// FPR and TPR are non-decreasing along the curve.
	for i := 1; i < len(points); i++ {
		if points[i].FPR < points[i-1].FPR {
			t.Errorf("FPR decreased at point %d: %v < %v", i, points[i].FPR, points[i-1].FPR)
		}
		if points[i].TPR < points[i-1].TPR {
			t.Errorf("TPR decreased at point %d: %v < %v", i, points[i].TPR, points[i-1].TPR)
		}
	}
}

func TestROCAUCMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	yScore := mat.NewDense(4, 1, []float64{0.1, 0.2, 0.8, 0.9})

	auc, err := ROCAUCMatrix(yTrue, yScore)
	if err != nil {
		t.Fatalf("ROCAUCMatrix() error = %v", err)
	}
	if auc != 1.0 {
		t.Errorf("ROCAUCMatrix() = %v, want 1.0", auc)
	}
}
