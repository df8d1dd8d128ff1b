package analysis

import (
	"fmt"
	"os"
	"sort"
	"time"

	"precinctpulse/internal/dataset"
	"precinctpulse/internal/models"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// Options configures an analysis run. Verbosity is an explicit value
// here rather than a process-wide flag.
type Options struct {
	DataDir     string
	Verbose     bool
	Assumptions models.BottomUpAssumptions
}

// Runner walks the data directory and produces the per-precinct output
// records. Each precinct is processed independently and sequentially; a
// failing precinct is skipped with a logged reason and never aborts the
// batch.
type Runner struct {
	opts   Options
	loader *dataset.Loader
	logger *logrus.Logger
}

// NewRunner creates an analysis runner.
func NewRunner(opts Options, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.Assumptions == (models.BottomUpAssumptions{}) {
		opts.Assumptions = DefaultAssumptions()
	}
	return &Runner{
		opts:   opts,
		loader: dataset.NewLoader(logger),
		logger: logger,
	}
}

// SkippedPrecinct records why a precinct produced no output.
type SkippedPrecinct struct {
	Precinct string `json:"precinct"`
	Reason   string `json:"reason"`
}

// PrecinctResult is the full output for a single precinct.
type PrecinctResult struct {
	Summary  models.PrecinctSummary
	Details  []models.PropertyDetail
	Scenario *models.ConstructionScenario
}

// RunResult aggregates a whole batch.
type RunResult struct {
	Summaries []models.PrecinctSummary
	Details   []models.PropertyDetail
	Scenarios []models.ConstructionScenario
	Skipped   []SkippedPrecinct
	StartedAt time.Time
}

// Run analyzes every precinct folder under the data directory. The
// returned error covers only the inability to start the batch at all
// (missing data directory); per-precinct failures land in Skipped.
func (r *Runner) Run() (*RunResult, error) {
	entries, err := os.ReadDir(r.opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var precincts []string
	for _, e := range entries {
		if e.IsDir() {
			precincts = append(precincts, e.Name())
		}
	}
	sort.Strings(precincts)

	result := &RunResult{StartedAt: time.Now()}
	for _, precinct := range precincts {
		pr, err := r.AnalyzePrecinct(precinct)
		if err != nil {
			r.logger.WithError(err).WithField("precinct", precinct).Warn("Skipping precinct")
			result.Skipped = append(result.Skipped, SkippedPrecinct{Precinct: precinct, Reason: err.Error()})
			// A salvaged plots-only scenario still counts.
			if pr != nil && pr.Scenario != nil {
				result.Scenarios = append(result.Scenarios, *pr.Scenario)
			}
			continue
		}
		result.Summaries = append(result.Summaries, pr.Summary)
		result.Details = append(result.Details, pr.Details...)
		if pr.Scenario != nil {
			result.Scenarios = append(result.Scenarios, *pr.Scenario)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"precincts": len(result.Summaries),
		"skipped":   len(result.Skipped),
		"details":   len(result.Details),
	}).Info("Analysis run complete")

	return result, nil
}

// AnalyzePrecinct runs the full statistics pipeline for one precinct.
// When the houses dataset is missing or degenerate the error is
// returned alongside a partial result: the bottom-up construction
// scenario needs only the plot baseline, so it is still built.
func (r *Runner) AnalyzePrecinct(precinct string) (*PrecinctResult, error) {
	houses, err := r.loader.LoadSnapshot(r.opts.DataDir, precinct, models.CategoryHouses)
	if err != nil {
		return r.scenarioOnly(precinct, nil), fmt.Errorf("failed to load houses dataset: %w", err)
	}

	baseline, err := ComputeUnitPriceStats(houses)
	if err != nil {
		return r.scenarioOnly(precinct, houses), err
	}

	flags, bargains := DetectBargains(houses, baseline)
	regression := FitRegression(houses)
	analyzedAt := time.Now()

	nonGrey := houses.NonGrey()
	sizes := make([]float64, len(nonGrey))
	prices := make([]float64, len(nonGrey))
	for i := range nonGrey {
		sizes[i] = nonGrey[i].Size
		prices[i] = nonGrey[i].Price
	}
	medianSize, _ := stats.Median(sizes)
	medianPrice, _ := stats.Median(prices)

	summary := models.PrecinctSummary{
		Precinct:        precinct,
		SnapshotID:      houses.SnapshotID,
		HouseCount:      len(nonGrey),
		GreyCount:       houses.GreyCount(),
		MedianSize:      medianSize,
		MedianPrice:     medianPrice,
		MedianUnitPrice: baseline.Median,
		StdDevUnitPrice: baseline.StdDev,
		UnitPrices:      baseline,
		Bargains:        bargains,
		Regression:      regression,
		AnalyzedAt:      analyzedAt,
	}

	details := make([]models.PropertyDetail, len(houses.Records))
	for i := range houses.Records {
		rec := &houses.Records[i]
		z := flags[i].ZScore
		details[i] = models.PropertyDetail{
			Precinct:        precinct,
			SnapshotID:      houses.SnapshotID,
			Price:           rec.Price,
			Size:            rec.Size,
			UnitPrice:       flags[i].UnitPrice,
			ZScore:          &z,
			FittedPrice:     regression.Fitted(rec.Size),
			IsBargain:       flags[i].IsBargain,
			IsGreyStructure: rec.IsGreyStructure,
			AnalyzedAt:      analyzedAt,
		}
	}

	r.logSummary(&summary, baseline)

	pr := &PrecinctResult{Summary: summary, Details: details}

	// Construction needs the plots dataset too; its absence only costs
	// the scenario, not the precinct.
	plots, err := r.loader.LoadSnapshot(r.opts.DataDir, precinct, models.CategoryPlots)
	if err != nil {
		r.logger.WithError(err).WithField("precinct", precinct).Debug("No plots dataset; skipping construction scenario")
		return pr, nil
	}
	scenario, err := BuildScenario(precinct, houses, plots, r.opts.Assumptions)
	if err != nil {
		r.logger.WithError(err).WithField("precinct", precinct).Warn("Failed to build construction scenario")
		return pr, nil
	}
	scenario.AnalyzedAt = analyzedAt
	pr.Scenario = scenario

	return pr, nil
}

// scenarioOnly salvages the construction scenario for a precinct whose
// houses dataset is unusable. Both loads failing leaves nothing to
// report, so the result is nil.
func (r *Runner) scenarioOnly(precinct string, houses *models.PrecinctDataset) *PrecinctResult {
	plots, err := r.loader.LoadSnapshot(r.opts.DataDir, precinct, models.CategoryPlots)
	if err != nil {
		return nil
	}
	scenario, err := BuildScenario(precinct, houses, plots, r.opts.Assumptions)
	if err != nil {
		return nil
	}
	scenario.AnalyzedAt = time.Now()
	r.logger.WithField("precinct", precinct).Info("Built construction scenario without a houses baseline")
	return &PrecinctResult{Scenario: scenario}
}

func (r *Runner) logSummary(s *models.PrecinctSummary, baseline models.UnitPriceStats) {
	r.logger.WithFields(logrus.Fields{
		"precinct":               s.Precinct,
		"n_houses":               s.HouseCount,
		"n_grey":                 s.GreyCount,
		"median_price_per_sq_yd": s.MedianUnitPrice,
		"std_price_per_sq_yd":    s.StdDevUnitPrice,
		"n_bargains":             s.Bargains.BargainCount,
		"bargain_pct":            s.Bargains.BargainPct,
		"r_squared":              s.Regression.RSquared,
	}).Info("Precinct analyzed")

	if r.opts.Verbose {
		r.logger.WithFields(logrus.Fields{
			"precinct": s.Precinct,
			"min":      baseline.Min,
			"p10":      baseline.P10,
			"p25":      baseline.P25,
			"p50":      baseline.P50,
			"p75":      baseline.P75,
			"p90":      baseline.P90,
			"max":      baseline.Max,
		}).Info("Unit-price distribution")
	}
}
