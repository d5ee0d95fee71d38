// Package dataset loads and inspects the blood-donation history table.
//
// The expected input is the RFMTC-style transfusion CSV: four numeric
// predictors (recency, frequency, monetary volume, time since first
// donation) and one binary label column. The file is validated on load;
// a Dataset is immutable apart from the label rename.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/takara-ml/donorml/pkg/errors"
)

// Fixed schema of the transfusion CSV.
const (
	RecencyCol   = "Recency (months)"
	FrequencyCol = "Frequency (times)"
	MonetaryCol  = "Monetary (c.c. blood)"
	TimeCol      = "Time (months)"
	RawLabelCol  = "whether he/she donated blood in March 2007"

	// CanonicalLabel is the name the raw label column is renamed to.
	CanonicalLabel = "donated"
)

// Schema returns the expected column names in file order.
func Schema() []string {
	return []string{RecencyCol, FrequencyCol, MonetaryCol, TimeCol, RawLabelCol}
}

// Dataset is an ordered collection of donor records backed by a dataframe.
type Dataset struct {
	df       dataframe.DataFrame
	labelCol string
}

// NRows returns the number of records.
func (d *Dataset) NRows() int {
	return d.df.Nrow()
}

// NCols returns the number of columns.
func (d *Dataset) NCols() int {
	return d.df.Ncol()
}

// Columns returns the current column names in order.
func (d *Dataset) Columns() []string {
	return d.df.Names()
}

// LabelColumn returns the current name of the label column.
func (d *Dataset) LabelColumn() string {
	return d.labelCol
}

// FeatureColumns returns the predictor column names in order.
func (d *Dataset) FeatureColumns() []string {
	cols := make([]string, 0, d.df.Ncol()-1)
	for _, name := range d.df.Names() {
		if name != d.labelCol {
			cols = append(cols, name)
		}
	}
	return cols
}

// Head renders the first n records as a table.
func (d *Dataset) Head(n int) string {
	if n > d.df.Nrow() {
		n = d.df.Nrow()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.df.Subset(idx).String()
}

// Info renders a per-column summary: dtype and non-null count, in the
// spirit of a dataframe info() call.
func (d *Dataset) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %d entries, %d columns\n", d.df.Nrow(), d.df.Ncol())
	types := d.df.Types()
	for i, name := range d.df.Names() {
		col := d.df.Col(name)
		nonNull := 0
		for _, v := range col.Float() {
			if !math.IsNaN(v) {
				nonNull++
			}
		}
		fmt.Fprintf(&b, "  %-45s %d non-null  %v\n", name, nonNull, types[i])
	}
	return b.String()
}

// RenameLabel renames the raw label column to the given canonical name.
// The original name is no longer present afterwards.
func (d *Dataset) RenameLabel(canonical string) error {
	if canonical == "" {
		return errors.NewValidationError("canonical", "must not be empty", canonical)
	}
	found := false
	for _, name := range d.df.Names() {
		if name == d.labelCol {
			found = true
			break
		}
	}
	if !found {
		return errors.NewValueError("Dataset.RenameLabel", fmt.Sprintf("label column %q not present", d.labelCol))
	}
	renamed := d.df.Rename(canonical, d.labelCol)
	if renamed.Err != nil {
		return errors.Wrap(renamed.Err, "donorml: Dataset.RenameLabel")
	}
	d.df = renamed
	d.labelCol = canonical
	return nil
}

// ValueCounts returns the distinct values of a column with their counts,
// values sorted ascending.
func (d *Dataset) ValueCounts(col string) (values []float64, counts []int, err error) {
	s := d.df.Col(col)
	if s.Err != nil {
		return nil, nil, errors.Wrap(s.Err, "donorml: Dataset.ValueCounts")
	}
	byValue := make(map[float64]int)
	for _, v := range s.Float() {
		byValue[v]++
	}
	values = make([]float64, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Float64s(values)
	counts = make([]int, len(values))
	for i, v := range values {
		counts[i] = byValue[v]
	}
	return values, counts, nil
}

// Proportions returns the distinct values of a column with their relative
// frequencies. The proportions sum to 1 within floating tolerance.
func (d *Dataset) Proportions(col string) (values []float64, props []float64, err error) {
	values, counts, err := d.ValueCounts(col)
	if err != nil {
		return nil, nil, err
	}
	total := float64(d.df.Nrow())
	props = make([]float64, len(counts))
	for i, c := range counts {
		props[i] = float64(c) / total
	}
	return values, props, nil
}

// Variances returns the sample variance of every feature column.
func (d *Dataset) Variances() (map[string]float64, error) {
	out := make(map[string]float64, d.df.Ncol()-1)
	for _, name := range d.FeatureColumns() {
		s := d.df.Col(name)
		if s.Err != nil {
			return nil, errors.Wrap(s.Err, "donorml: Dataset.Variances")
		}
		vals := s.Float()
		if len(vals) < 2 {
			out[name] = 0
			continue
		}
		out[name] = stat.Variance(vals, nil)
	}
	return out, nil
}

// Matrix returns the predictor columns as a dense matrix, rows in record
// order and columns in FeatureColumns order.
func (d *Dataset) Matrix() (*mat.Dense, error) {
	cols := d.FeatureColumns()
	n := d.df.Nrow()
	X := mat.NewDense(n, len(cols), nil)
	for j, name := range cols {
		vals := d.df.Col(name).Float()
		for i, v := range vals {
			X.Set(i, j, v)
		}
	}
	if err := errors.CheckMatrix("Dataset.Matrix", X, n, len(cols), 0); err != nil {
		return nil, err
	}
	return X, nil
}

// Labels returns the label column as an n x 1 matrix.
func (d *Dataset) Labels() (*mat.Dense, error) {
	s := d.df.Col(d.labelCol)
	if s.Err != nil {
		return nil, errors.Wrap(s.Err, "donorml: Dataset.Labels")
	}
	vals := s.Float()
	y := mat.NewDense(len(vals), 1, vals)
	if err := errors.CheckMatrix("Dataset.Labels", y, len(vals), 1, 0); err != nil {
		return nil, err
	}
	return y, nil
}

// Subset returns a new Dataset restricted to the given row indices.
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	sub := d.df.Subset(indices)
	if sub.Err != nil {
		return nil, errors.Wrap(sub.Err, "donorml: Dataset.Subset")
	}
	return &Dataset{df: sub, labelCol: d.labelCol}, nil
}
