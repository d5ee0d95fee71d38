package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/takara-ml/donorml/pkg/errors"
	mllog "github.com/takara-ml/donorml/pkg/log"
)

// Load reads the transfusion CSV at path and validates it against the
// fixed five-column schema. Missing, extra or reordered columns, missing
// values, and non-numeric cells are all load errors; nothing is recovered.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "donorml: dataset.Load: open")
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{
			RecencyCol:   series.Float,
			FrequencyCol: series.Float,
			MonetaryCol:  series.Float,
			TimeCol:      series.Float,
			RawLabelCol:  series.Float,
		}),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "donorml: dataset.Load: parse")
	}

	if err := validateSchema(df); err != nil {
		return nil, err
	}

	d := &Dataset{df: df, labelCol: RawLabelCol}
	slog.Info("dataset loaded",
		slog.String(mllog.OperationKey, "load"),
		slog.Int(mllog.SamplesKey, d.NRows()),
		slog.Int(mllog.FeaturesKey, d.NCols()-1),
	)
	return d, nil
}

func validateSchema(df dataframe.DataFrame) error {
	want := Schema()
	got := df.Names()
	if len(got) != len(want) {
		return errors.NewDimensionError("dataset.Load", len(want), len(got), 1)
	}
	for i, name := range want {
		if got[i] != name {
			return errors.NewValidationError("columns",
				fmt.Sprintf("expected column %q at position %d", name, i), got[i])
		}
	}
	if df.Nrow() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "donorml: dataset.Load")
	}
	// The source table has no missing values; any NaN after the forced
	// float parse means a malformed cell.
	for _, name := range got {
		for i, v := range df.Col(name).Float() {
			if math.IsNaN(v) {
				return errors.Wrapf(errors.ErrMissingValues,
					"donorml: dataset.Load: column %q row %d", name, i)
			}
		}
	}
	return nil
}
