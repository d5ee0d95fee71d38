// Command donorml runs the blood-donation analysis flow end to end: load
// the transfusion CSV, inspect it, split it, log-transform the volume
// feature, run the automated pipeline search, fit the logistic regression
// baseline, and print the ranked AUC comparison.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/takara-ml/donorml/automl"
	"github.com/takara-ml/donorml/dataset"
	"github.com/takara-ml/donorml/linear_model"
	"github.com/takara-ml/donorml/metrics"
	"github.com/takara-ml/donorml/model_selection"
	"github.com/takara-ml/donorml/pkg/errors"
	mllog "github.com/takara-ml/donorml/pkg/log"
	"github.com/takara-ml/donorml/preprocessing"
	"github.com/takara-ml/donorml/report"
)

const (
	name    = "donorml"
	version = "v0.1.0"

	// Index of the volume column among the predictors.
	monetaryColIdx = 2
	monetaryLogCol = "monetary_log"
)

var (
	dataFlag = &cli.StringFlag{
		Name:     "data",
		Usage:    "Path to the transfusion CSV file",
		Required: true,
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Random seed for the split, the search and the baseline (fixed for reproducible runs)",
		Value: 42,
	}
	trainRatioFlag = &cli.Float64Flag{
		Name:  "train-ratio",
		Usage: "Fraction of records assigned to the training partition",
		Value: 0.8,
	}
	populationFlag = &cli.IntFlag{
		Name:  "population",
		Usage: "Candidate pipelines per generation of the search",
		Value: 20,
	}
	generationsFlag = &cli.IntFlag{
		Name:  "generations",
		Usage: "Number of search generations",
		Value: 5,
	}
	cvFoldsFlag = &cli.IntFlag{
		Name:  "cv-folds",
		Usage: "Stratified CV folds used as the search fitness",
		Value: 5,
	}
	rocPlotFlag = &cli.StringFlag{
		Name:  "roc-plot",
		Usage: "Write a ROC curve PNG to this path (optional)",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn or error",
		Value: "info",
	}
)

func main() {
	app := &cli.App{
		Name:    name,
		Version: version,
		Usage:   "blood-donation classification pipeline",
		Flags: []cli.Flag{
			dataFlag,
			seedFlag,
			trainRatioFlag,
			populationFlag,
			generationsFlag,
			cvFoldsFlag,
			rocPlotFlag,
			logLevelFlag,
		},
		Before: func(c *cli.Context) error {
			if err := mllog.SetupLogger(c.String(logLevelFlag.Name)); err != nil {
				return err
			}
			mllog.SetupWarningLogger(os.Stderr)
			return nil
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("run failed", mllog.ErrAttr(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	seed := c.Uint64(seedFlag.Name)

	// Load and inspect.
	ds, err := dataset.Load(c.String(dataFlag.Name))
	if err != nil {
		return err
	}
	fmt.Println(ds.Head(5))
	fmt.Println(ds.Info())

	if err := ds.RenameLabel(dataset.CanonicalLabel); err != nil {
		return err
	}

	if err := printClassBalance(ds); err != nil {
		return err
	}

	// Stratified 80/20 split.
	y, err := ds.Labels()
	if err != nil {
		return err
	}
	splitter := model_selection.NewStratifiedShuffleSplit(c.Float64(trainRatioFlag.Name), seed)
	trainIdx, testIdx, err := splitter.Split(y)
	if err != nil {
		return err
	}
	train, err := ds.Subset(trainIdx)
	if err != nil {
		return err
	}
	test, err := ds.Subset(testIdx)
	if err != nil {
		return err
	}
	slog.Info("dataset split",
		slog.String(mllog.OperationKey, "split"),
		slog.Int("train.samples", train.NRows()),
		slog.Int("test.samples", test.NRows()),
	)

	trainX, err := train.Matrix()
	if err != nil {
		return err
	}
	trainY, err := train.Labels()
	if err != nil {
		return err
	}
	testX, err := test.Matrix()
	if err != nil {
		return err
	}
	testY, err := test.Labels()
	if err != nil {
		return err
	}

	// Log-transform the volume column for the variance table and the
	// baseline model. The search operates on the raw features; scaling
	// is part of its own search space.
	logT := preprocessing.NewLogTransformer(monetaryColIdx).
		WithColumnNames(train.FeatureColumns())
	trainXLog, err := logT.FitTransform(trainX)
	if err != nil {
		return err
	}
	testXLog, err := logT.Transform(testX)
	if err != nil {
		return err
	}

	rawVars, err := train.Variances()
	if err != nil {
		return err
	}
	fmt.Println(report.FormatVariances(rawVars, dataset.MonetaryCol,
		monetaryLogCol, columnVariance(trainXLog, monetaryColIdx)))

	// Automated pipeline search.
	search := automl.NewSearch(c.Int(populationFlag.Name), c.Int(generationsFlag.Name), seed)
	search.CVFolds = c.Int(cvFoldsFlag.Name)
	result, err := search.Run(trainX, trainY)
	if err != nil {
		return err
	}
	fmt.Println("Search progress (cross-validated AUC):")
	for _, g := range result.History {
		fmt.Printf("  generation %d: best=%.4f mean=%.4f\n", g.Generation, g.BestScore, g.MeanScore)
	}
	fmt.Printf("  best pipeline: %s\n\n", result.Best)

	// Baseline: fixed logistic regression on the log-transformed features.
	baseline := linear_model.NewLogisticRegression(
		linear_model.WithPenalty("l2"),
		linear_model.WithC(1.0),
		linear_model.WithSolver("gd"),
		linear_model.WithMaxIter(1000),
		linear_model.WithRandomState(int64(seed)),
	)
	if err := baseline.Fit(trainXLog, trainY); err != nil {
		return err
	}

	// Score both on the held-out partition.
	searchScores, err := positiveScores(result.Best, testX)
	if err != nil {
		return err
	}
	baselineScores, err := positiveScores(baseline, testXLog)
	if err != nil {
		return err
	}

	searchAUC, err := metrics.ROCAUCMatrix(testY, searchScores)
	if err != nil {
		return err
	}
	baselineAUC, err := metrics.ROCAUCMatrix(testY, baselineScores)
	if err != nil {
		return err
	}
	slog.Info("evaluation complete",
		slog.String(mllog.PhaseKey, "evaluation"),
		slog.Float64("search."+mllog.AUCKey, searchAUC),
		slog.Float64("baseline."+mllog.AUCKey, baselineAUC),
	)

	var comparison report.Comparison
	comparison.Add(fmt.Sprintf("pipeline search (%s)", result.Best), searchAUC)
	comparison.Add("logistic regression baseline", baselineAUC)
	fmt.Println(comparison.String())

	if path := c.String(rocPlotFlag.Name); path != "" {
		if err := saveROC(path, testY, searchScores, baselineScores); err != nil {
			return err
		}
		slog.Info("roc plot written", slog.String("path", path))
	}
	return nil
}

func printClassBalance(ds *dataset.Dataset) error {
	values, counts, err := ds.ValueCounts(dataset.CanonicalLabel)
	if err != nil {
		return err
	}
	_, props, err := ds.Proportions(dataset.CanonicalLabel)
	if err != nil {
		return err
	}
	fmt.Println("Class balance:")
	for i, v := range values {
		fmt.Printf("  %s=%g  count=%d  proportion=%.4f\n", dataset.CanonicalLabel, v, counts[i], props[i])
	}
	fmt.Println()
	return nil
}

// positiveScores returns the positive-class probability column of a
// classifier as an n x 1 matrix.
func positiveScores(clf interface {
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}, X mat.Matrix) (mat.Matrix, error) {
	proba, err := clf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	scores := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		scores.Set(i, 0, proba.At(i, 1))
	}
	return scores, nil
}

func columnVariance(m mat.Matrix, col int) float64 {
	r, _ := m.Dims()
	if r < 2 {
		return 0
	}
	vals := make([]float64, r)
	for i := range vals {
		vals[i] = m.At(i, col)
	}
	return stat.Variance(vals, nil)
}

func saveROC(path string, yTrue, searchScores, baselineScores mat.Matrix) error {
	toVec := func(m mat.Matrix) *mat.VecDense {
		r, _ := m.Dims()
		v := mat.NewVecDense(r, nil)
		for i := 0; i < r; i++ {
			v.SetVec(i, m.At(i, 0))
		}
		return v
	}
	truth := toVec(yTrue)

	searchCurve, err := metrics.ROCCurve(truth, toVec(searchScores))
	if err != nil {
		return err
	}
	baselineCurve, err := metrics.ROCCurve(truth, toVec(baselineScores))
	if err != nil {
		return err
	}
	return errors.Wrap(report.SaveROCPlot(path,
		report.ROCSeries{Name: "pipeline search", Points: searchCurve},
		report.ROCSeries{Name: "baseline", Points: baselineCurve},
	), "donorml: roc plot")
}
