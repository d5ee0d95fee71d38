// Package report renders the evaluation output of the analysis run: the
// ranked AUC comparison, the variance table, and an optional ROC plot.
package report

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/takara-ml/donorml/metrics"
	"github.com/takara-ml/donorml/pkg/errors"
)

// Entry is one (model name, AUC) pair of the comparison.
type Entry struct {
	Name string
	AUC  float64
}

// Comparison collects scored models and ranks them by AUC, best first.
type Comparison struct {
	entries []Entry
}

// Add records a model's test AUC.
func (c *Comparison) Add(name string, auc float64) {
	c.entries = append(c.entries, Entry{Name: name, AUC: auc})
}

// Ranked returns the entries sorted by descending AUC. Ties keep
// insertion order.
func (c *Comparison) Ranked() []Entry {
	ranked := make([]Entry, len(c.entries))
	copy(ranked, c.entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AUC > ranked[j].AUC
	})
	return ranked
}

// String renders the ranked comparison as a table.
func (c *Comparison) String() string {
	var b strings.Builder
	b.WriteString("Model comparison (test AUC, best first)\n")
	for i, e := range c.Ranked() {
		fmt.Fprintf(&b, "  %d. %-40s %.4f\n", i+1, e.Name, e.AUC)
	}
	return b.String()
}

// FormatVariances renders a raw-vs-transformed variance table for the
// named column, plus the remaining feature variances for context.
func FormatVariances(raw map[string]float64, column string, transformedName string, transformedVar float64) string {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Feature variances (train partition)\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-45s %14.2f\n", name, raw[name])
	}
	fmt.Fprintf(&b, "  %-45s %14.6f  (was %.2f as %q)\n",
		transformedName, transformedVar, raw[column], column)
	return b.String()
}

// ROCSeries is one labeled ROC curve for plotting.
type ROCSeries struct {
	Name   string
	Points []metrics.ROCPoint
}

// SaveROCPlot writes a PNG with one ROC curve per series and the chance
// diagonal, to the given path.
func SaveROCPlot(path string, series ...ROCSeries) error {
	if len(series) == 0 {
		return errors.NewValueError("SaveROCPlot", "at least one ROC series required")
	}

	p := plot.New()
	p.Title.Text = "ROC curves"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	// Chance diagonal.
	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "donorml: SaveROCPlot: diagonal")
	}
	diag.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = plotter.XY{X: pt.FPR, Y: pt.TPR}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "donorml: SaveROCPlot: series %q", s.Name)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = false

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "donorml: SaveROCPlot: save %q", path)
	}
	return nil
}
