package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/takara-ml/donorml/metrics"
)

func TestComparison_Ranked(t *testing.T) {
	var c Comparison
	c.Add("baseline", 0.72)
	c.Add("searched pipeline", 0.78)
	c.Add("coin flip", 0.50)

	ranked := c.Ranked()
	if len(ranked) != 3 {
		t.Fatalf("Ranked() length = %d, want 3", len(ranked))
	}

	wantOrder := []string{"searched pipeline", "baseline", "coin flip"}
	for i, want := range wantOrder {
		if ranked[i].Name != want {
			t.Errorf("rank %d = %q, want %q", i+1, ranked[i].Name, want)
		}
	}
}

func TestComparison_TiesKeepInsertionOrder(t *testing.T) {
	var c Comparison
	c.Add("first", 0.8)
	c.Add("second", 0.8)

	ranked := c.Ranked()
	if ranked[0].Name != "first" || ranked[1].Name != "second" {
		t.Errorf("tie order broken: got %q then %q", ranked[0].Name, ranked[1].Name)
	}
}

func TestComparison_String(t *testing.T) {
	var c Comparison
	c.Add("baseline", 0.7215)
	c.Add("searched pipeline", 0.7812)

	out := c.String()
	if !strings.Contains(out, "1. searched pipeline") {
		t.Errorf("output missing top rank:\n%s", out)
	}
	if !strings.Contains(out, "0.7812") {
		t.Errorf("output missing formatted AUC:\n%s", out)
	}
	if strings.Index(out, "searched pipeline") > strings.Index(out, "baseline") {
		t.Errorf("better model listed after worse one:\n%s", out)
	}
}

func TestFormatVariances(t *testing.T) {
	raw := map[string]float64{
		"Recency (months)":      65.0,
		"Monetary (c.c. blood)": 2114363.7,
		"Frequency (times)":     33.8,
	}

	out := FormatVariances(raw, "Monetary (c.c. blood)", "monetary_log", 0.93)
	for _, want := range []string{"Monetary (c.c. blood)", "monetary_log", "0.930000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSaveROCPlot(t *testing.T) {
	curve := []metrics.ROCPoint{
		{FPR: 0, TPR: 0},
		{FPR: 0.1, TPR: 0.6},
		{FPR: 0.4, TPR: 0.9},
		{FPR: 1, TPR: 1},
	}

	path := filepath.Join(t.TempDir(), "roc.png")
	err := SaveROCPlot(path,
		ROCSeries{Name: "searched pipeline", Points: curve},
		ROCSeries{Name: "baseline", Points: curve},
	)
	if err != nil {
		t.Fatalf("SaveROCPlot() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSaveROCPlot_NoSeries(t *testing.T) {
	if err := SaveROCPlot(filepath.Join(t.TempDir(), "roc.png")); err == nil {
		t.Fatal("expected error for empty series")
	}
}
