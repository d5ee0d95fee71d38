package automl

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	coremodel "github.com/takara-ml/donorml/core/model"
	"github.com/takara-ml/donorml/core/parallel"
	"github.com/takara-ml/donorml/model_selection"
	"github.com/takara-ml/donorml/pkg/errors"
	mllog "github.com/takara-ml/donorml/pkg/log"
)

// Search space grids. Scaling operators and logistic classifiers only.
var (
	operatorGrid = []Operator{OpIdentity, OpStandardScaler, OpMinMaxScaler}
	cGrid        = []float64{0.01, 0.1, 0.5, 1.0, 5.0, 10.0, 25.0, 100.0}
	maxIterGrid  = []int{200, 500, 1000}
	tolGrid      = []float64{1e-3, 1e-4, 1e-5}
)

// Search runs an elitist genetic search over pipeline candidates.
// Fitness is the mean stratified cross-validated ROC AUC on the training
// partition. Deterministic for a fixed seed.
type Search struct {
	PopulationSize int
	Generations    int
	CVFolds        int
	EliteCount     int
	MutationRate   float64
	Seed           uint64
}

// NewSearch creates a search with the reference configuration:
// 20 candidates over 5 generations, 5-fold CV fitness.
func NewSearch(populationSize, generations int, seed uint64) *Search {
	if populationSize < 2 {
		populationSize = 20
	}
	if generations < 1 {
		generations = 5
	}
	return &Search{
		PopulationSize: populationSize,
		Generations:    generations,
		CVFolds:        5,
		EliteCount:     populationSize / 5,
		MutationRate:   0.2,
		Seed:           seed,
	}
}

// GenerationStats records the progress of one generation.
type GenerationStats struct {
	Generation int
	BestScore  float64
	MeanScore  float64
	Best       Candidate
}

// Result is the outcome of a search: the best pipeline refitted on the
// full training partition, its internal CV score, and per-generation
// progress.
type Result struct {
	Best      *Pipeline
	BestScore float64
	History   []GenerationStats
}

type scoredCandidate struct {
	candidate Candidate
	fitness   float64
}

// Run executes the search against the training features and labels.
func (s *Search) Run(X, y mat.Matrix) (*Result, error) {
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "donorml: Search.Run")
	}
	if s.CVFolds < 2 {
		return nil, errors.NewValidationError("cv_folds", "must be at least 2", s.CVFolds)
	}

	r := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))

	population := make([]Candidate, s.PopulationSize)
	for i := range population {
		population[i] = randomCandidate(r)
	}

	slog.Info("pipeline search started",
		slog.String(mllog.PhaseKey, "search"),
		slog.Int(mllog.PopulationKey, s.PopulationSize),
		slog.Int("search.generations", s.Generations),
		slog.Int(mllog.SamplesKey, nSamples),
	)

	var history []GenerationStats
	var best scoredCandidate
	best.fitness = -1

	for gen := 0; gen < s.Generations; gen++ {
		start := time.Now()
		scored, err := s.evaluate(population, X, y)
		if err != nil {
			return nil, err
		}

		sort.SliceStable(scored, func(a, b int) bool {
			return scored[a].fitness > scored[b].fitness
		})

		mean := 0.0
		for _, sc := range scored {
			mean += sc.fitness
		}
		mean /= float64(len(scored))

		if scored[0].fitness > best.fitness {
			best = scored[0]
		}

		history = append(history, GenerationStats{
			Generation: gen + 1,
			BestScore:  best.fitness,
			MeanScore:  mean,
			Best:       best.candidate,
		})

		slog.Info("generation complete",
			slog.Int(mllog.GenerationKey, gen+1),
			slog.Float64(mllog.BestScoreKey, best.fitness),
			slog.Float64("search.mean_score", mean),
			slog.String("search.best_pipeline", best.candidate.String()),
			slog.Int64(mllog.DurationMsKey, time.Since(start).Milliseconds()),
		)

		if gen < s.Generations-1 {
			population = s.nextGeneration(scored, r)
		}
	}

	// Refit the winner on the whole training partition.
	pipe, err := NewPipeline(best.candidate, int64(s.Seed))
	if err != nil {
		return nil, err
	}
	if err := pipe.Fit(X, y); err != nil {
		return nil, errors.Wrap(err, "donorml: Search.Run: refit best pipeline")
	}

	return &Result{Best: pipe, BestScore: best.fitness, History: history}, nil
}

// evaluate computes the CV fitness of every candidate, in parallel across
// the population. Any candidate failure aborts the search.
func (s *Search) evaluate(population []Candidate, X, y mat.Matrix) ([]scoredCandidate, error) {
	scored := make([]scoredCandidate, len(population))
	errs := make([]error, len(population))

	parallel.ParallelizeWithThreshold(len(population), 2, func(startIdx, endIdx int) {
		for i := startIdx; i < endIdx; i++ {
			candidate := population[i]
			errs[i] = errors.SafeExecute("candidate evaluation", func() error {
				splitter := model_selection.NewStratifiedKFold(s.CVFolds, true, s.Seed)
				factory := func() coremodel.Classifier {
					p, err := NewPipeline(candidate, int64(s.Seed))
					if err != nil {
						// Grid candidates are always materializable; a
						// failure here is a programming error.
						panic(err)
					}
					return p
				}
				cv, err := model_selection.CrossValidateAUC(factory, X, y, splitter)
				if err != nil {
					return err
				}
				scored[i] = scoredCandidate{candidate: candidate, fitness: cv.GetMeanScore()}
				return nil
			})
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "donorml: Search.evaluate: candidate %d (%s)", i, population[i])
		}
	}
	return scored, nil
}

// nextGeneration keeps the elites and fills the rest of the population by
// tournament selection, crossover and mutation.
func (s *Search) nextGeneration(scored []scoredCandidate, r *rand.Rand) []Candidate {
	next := make([]Candidate, 0, s.PopulationSize)

	elite := s.EliteCount
	if elite < 1 {
		elite = 1
	}
	for i := 0; i < elite && i < len(scored); i++ {
		next = append(next, scored[i].candidate)
	}

	for len(next) < s.PopulationSize {
		parentA := tournament(scored, r)
		parentB := tournament(scored, r)
		child := crossover(parentA, parentB, r)
		child = s.mutate(child, r)
		next = append(next, child)
	}
	return next
}

// tournament picks the fitter of two random candidates.
func tournament(scored []scoredCandidate, r *rand.Rand) Candidate {
	a := scored[r.IntN(len(scored))]
	b := scored[r.IntN(len(scored))]
	if a.fitness >= b.fitness {
		return a.candidate
	}
	return b.candidate
}

// crossover mixes the genes of two parents uniformly.
func crossover(a, b Candidate, r *rand.Rand) Candidate {
	child := a
	if r.IntN(2) == 1 {
		child.Op = b.Op
	}
	if r.IntN(2) == 1 {
		child.C = b.C
	}
	if r.IntN(2) == 1 {
		child.MaxIter = b.MaxIter
	}
	if r.IntN(2) == 1 {
		child.Tol = b.Tol
	}
	return child
}

// mutate re-rolls each gene with probability MutationRate.
func (s *Search) mutate(c Candidate, r *rand.Rand) Candidate {
	if r.Float64() < s.MutationRate {
		c.Op = operatorGrid[r.IntN(len(operatorGrid))]
	}
	if r.Float64() < s.MutationRate {
		c.C = cGrid[r.IntN(len(cGrid))]
	}
	if r.Float64() < s.MutationRate {
		c.MaxIter = maxIterGrid[r.IntN(len(maxIterGrid))]
	}
	if r.Float64() < s.MutationRate {
		c.Tol = tolGrid[r.IntN(len(tolGrid))]
	}
	return c
}

func randomCandidate(r *rand.Rand) Candidate {
	return Candidate{
		Op:      operatorGrid[r.IntN(len(operatorGrid))],
		C:       cGrid[r.IntN(len(cGrid))],
		MaxIter: maxIterGrid[r.IntN(len(maxIterGrid))],
		Tol:     tolGrid[r.IntN(len(tolGrid))],
	}
}
