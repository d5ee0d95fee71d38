// Package log defines standard attribute keys for the donor analysis pipeline.
//
// Using these keys keeps the pipeline stages (load, split, transform, search,
// evaluate) consistent in their structured output so runs can be compared
// and filtered.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the model or transformer emitting the log.
	// Examples: "LogisticRegression", "LogTransformer", "PipelineSearch"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "split", "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// PhaseKey indicates the pipeline phase.
	// Examples: "loading", "preprocessing", "search", "training", "evaluation"
	PhaseKey = "ml.phase"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// PositiveRateKey is the fraction of positive labels in a partition.
	PositiveRateKey = "data.positive_rate"
)

// Search progress.
const (
	// GenerationKey is the current generation of the pipeline search.
	GenerationKey = "search.generation"

	// BestScoreKey is the best cross-validated score seen so far.
	BestScoreKey = "search.best_score"

	// PopulationKey is the population size of the search.
	PopulationKey = "search.population"
)

// Performance metrics.
const (
	// AUCKey is the area under the ROC curve on a held-out partition.
	AUCKey = "metric.auc"

	// DurationMsKey is the elapsed wall time of an operation in milliseconds.
	DurationMsKey = "duration.ms"
)
