package analysis

import (
	"errors"
	"fmt"

	"precinctpulse/internal/models"

	"github.com/montanaflynn/stats"
)

// ErrDegenerateDataset signals that a dataset has no usable non-grey
// baseline (empty subset, or zero variance in unit prices). The caller
// must skip the dataset rather than fall back to defaults: z-scores
// against a zero or undefined deviation are meaningless.
var ErrDegenerateDataset = errors.New("degenerate dataset: no usable unit-price baseline")

// UnitPrices returns price/size for each record, in order.
func UnitPrices(records []models.PropertyRecord) []float64 {
	out := make([]float64, len(records))
	for i := range records {
		out[i] = records[i].UnitPrice()
	}
	return out
}

// ComputeUnitPriceStats derives the unit-price distribution of a
// dataset over its non-grey records. The standard deviation is the
// sample (n-1) estimator; percentiles interpolate linearly between
// ranks.
func ComputeUnitPriceStats(ds *models.PrecinctDataset) (models.UnitPriceStats, error) {
	nonGrey := ds.NonGrey()
	if len(nonGrey) == 0 {
		return models.UnitPriceStats{}, fmt.Errorf("%w: no non-grey records in %s/%s", ErrDegenerateDataset, ds.Precinct, ds.Category)
	}
	if len(nonGrey) < 2 {
		return models.UnitPriceStats{}, fmt.Errorf("%w: only one non-grey record in %s/%s", ErrDegenerateDataset, ds.Precinct, ds.Category)
	}

	unitPrices := UnitPrices(nonGrey)

	median, err := stats.Median(unitPrices)
	if err != nil {
		return models.UnitPriceStats{}, fmt.Errorf("failed to compute median: %w", err)
	}
	stdDev, err := stats.StandardDeviationSample(unitPrices)
	if err != nil {
		return models.UnitPriceStats{}, fmt.Errorf("failed to compute std dev: %w", err)
	}
	if stdDev == 0 {
		return models.UnitPriceStats{}, fmt.Errorf("%w: zero standard deviation in %s/%s", ErrDegenerateDataset, ds.Precinct, ds.Category)
	}

	min, _ := stats.Min(unitPrices)
	max, _ := stats.Max(unitPrices)

	return models.UnitPriceStats{
		Median: median,
		StdDev: stdDev,
		P10:    Quantile(unitPrices, 0.10),
		P25:    Quantile(unitPrices, 0.25),
		P50:    Quantile(unitPrices, 0.50),
		P75:    Quantile(unitPrices, 0.75),
		P90:    Quantile(unitPrices, 0.90),
		Min:    min,
		Max:    max,
		Count:  len(unitPrices),
	}, nil
}

// ZScore places a unit price on the non-grey baseline.
func ZScore(unitPrice float64, baseline models.UnitPriceStats) float64 {
	return (unitPrice - baseline.Median) / baseline.StdDev
}
