package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/takara-ml/donorml/pkg/errors"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
		4, 400,
	})

	scaler := NewStandardScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := out.Dims()
	for j := 0; j < c; j++ {
		mean, std := 0.0, 0.0
		for i := 0; i < r; i++ {
			mean += out.At(i, j)
		}
		mean /= float64(r)
		for i := 0; i < r; i++ {
			d := out.At(i, j) - mean
			std += d * d
		}
		std = math.Sqrt(std / float64(r))

		if math.Abs(mean) > 1e-10 {
			t.Errorf("column %d: mean = %v, want 0", j, mean)
		}
		if math.Abs(std-1.0) > 1e-10 {
			t.Errorf("column %d: std = %v, want 1", j, std)
		}
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if v := out.At(i, 0); v != 0 {
			t.Errorf("row %d: constant column should scale to 0, got %v", i, v)
		}
	}
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(3, 2, nil)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	_, err := scaler.Transform(mat.NewDense(3, 3, nil))
	if err == nil {
		t.Fatal("expected DimensionError")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %T", err)
	}
}

func TestMinMaxScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		2, 1000,
		4, 3000,
		6, 5000,
		10, 9000,
	})

	scaler := NewMinMaxScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := out.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := out.At(i, j)
			if v < 0 || v > 1 {
				t.Errorf("(%d,%d): %v outside [0,1]", i, j, v)
			}
		}
	}
	// Extremes map to 0 and 1.
	if out.At(0, 0) != 0 || out.At(3, 0) != 1 {
		t.Errorf("column 0 extremes = %v, %v; want 0, 1", out.At(0, 0), out.At(3, 0))
	}
}

func TestMinMaxScaler_NotFitted(t *testing.T) {
	scaler := NewMinMaxScaler()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("expected NotFittedError")
	}
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
}
