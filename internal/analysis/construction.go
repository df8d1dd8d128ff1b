package analysis

import (
	"errors"
	"fmt"

	"precinctpulse/internal/models"

	"github.com/montanaflynn/stats"
)

// SqYdToSqFt converts plot area to built area units: 1 sq yd = 9 sq ft.
const SqYdToSqFt = 9.0

// ErrNoPlotBaseline signals that the plots dataset could not supply a
// land-cost baseline for a precinct.
var ErrNoPlotBaseline = errors.New("no plot unit-price baseline available")

// DefaultAssumptions are the standard bottom-up inputs: a 280 sq yd
// (10 marla) plot, two floors at 70% coverage, 5000-5500 PKR/sq ft
// finished construction, 3% soft costs and 10% contingency off the base
// build cost, and a fixed 300k utilities allowance.
func DefaultAssumptions() models.BottomUpAssumptions {
	return models.BottomUpAssumptions{
		PlotSizeSqYd:    280,
		Floors:          2,
		CoverageRatio:   0.70,
		CostPerSqFtLow:  5000,
		CostPerSqFtHigh: 5500,
		SoftCostPct:     0.03,
		ContingencyPct:  0.10,
		UtilitiesFixed:  300000,
		HOAMonthly:      7000,
		Currency:        "PKR",
	}
}

// MedianPlotUnitPrice computes the land baseline from a plots dataset.
// Plots are never grey structures, so no grey filter applies here.
func MedianPlotUnitPrice(plots *models.PrecinctDataset) (float64, error) {
	if plots == nil || len(plots.Records) == 0 {
		return 0, ErrNoPlotBaseline
	}
	median, err := stats.Median(UnitPrices(plots.Records))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoPlotBaseline, err)
	}
	return median, nil
}

// EstimateImpliedCost derives construction cost per sq yd as each
// house's unit price minus the precinct's median plot unit price, with
// a p25/median/p75 summary. Grey-structure houses are excluded first.
func EstimateImpliedCost(houses, plots *models.PrecinctDataset) (*models.ImpliedCostEstimate, error) {
	medianPlot, err := MedianPlotUnitPrice(plots)
	if err != nil {
		return nil, err
	}

	nonGrey := houses.NonGrey()
	if len(nonGrey) == 0 {
		return nil, fmt.Errorf("no non-grey houses in %s to estimate construction cost", houses.Precinct)
	}

	costs := make([]float64, len(nonGrey))
	for i, up := range UnitPrices(nonGrey) {
		costs[i] = up - medianPlot
	}

	return &models.ImpliedCostEstimate{
		Precinct:            houses.Precinct,
		HouseCount:          len(nonGrey),
		PlotCount:           len(plots.Records),
		MedianPlotUnitPrice: medianPlot,
		MedianCostPerSqYd:   Quantile(costs, 0.50),
		P25CostPerSqYd:      Quantile(costs, 0.25),
		P75CostPerSqYd:      Quantile(costs, 0.75),
	}, nil
}

// EstimateBottomUp produces the transparent cost build-up for one
// precinct given its land baseline. Soft costs and contingency are
// percentages of the base build cost, not compounded on each other.
func EstimateBottomUp(precinct string, medianPlotUnitPrice float64, a models.BottomUpAssumptions) models.BottomUpEstimate {
	coveredAreaSqFt := a.PlotSizeSqYd * SqYdToSqFt * a.CoverageRatio * float64(a.Floors)

	buildLow := coveredAreaSqFt * a.CostPerSqFtLow
	buildHigh := coveredAreaSqFt * a.CostPerSqFtHigh

	softLow := buildLow * a.SoftCostPct
	softHigh := buildHigh * a.SoftCostPct
	contLow := buildLow * a.ContingencyPct
	contHigh := buildHigh * a.ContingencyPct

	totalBuildLow := buildLow + softLow + contLow + a.UtilitiesFixed
	totalBuildHigh := buildHigh + softHigh + contHigh + a.UtilitiesFixed

	landCost := a.PlotSizeSqYd * medianPlotUnitPrice

	return models.BottomUpEstimate{
		Precinct:             precinct,
		MedianPlotUnitPrice:  medianPlotUnitPrice,
		PlotSizeSqYd:         a.PlotSizeSqYd,
		CoveredAreaSqFt:      coveredAreaSqFt,
		BuildCostLow:         buildLow,
		BuildCostHigh:        buildHigh,
		SoftCostLow:          softLow,
		SoftCostHigh:         softHigh,
		ContingencyLow:       contLow,
		ContingencyHigh:      contHigh,
		UtilitiesFixed:       a.UtilitiesFixed,
		TotalBuildLow:        totalBuildLow,
		TotalBuildHigh:       totalBuildHigh,
		LandCost:             landCost,
		TotalProjectLow:      totalBuildLow + landCost,
		TotalProjectHigh:     totalBuildHigh + landCost,
		BuildCostPerSqYdLow:  totalBuildLow / a.PlotSizeSqYd,
		BuildCostPerSqYdHigh: totalBuildHigh / a.PlotSizeSqYd,
	}
}

// BuildScenario combines both estimation methods for a precinct. The
// bottom-up estimate only needs the plot baseline; the implied estimate
// additionally needs a usable houses dataset, and its absence just
// leaves the comparison field nil.
func BuildScenario(precinct string, houses, plots *models.PrecinctDataset, a models.BottomUpAssumptions) (*models.ConstructionScenario, error) {
	medianPlot, err := MedianPlotUnitPrice(plots)
	if err != nil {
		return nil, err
	}

	scenario := &models.ConstructionScenario{
		Precinct: precinct,
		BottomUp: EstimateBottomUp(precinct, medianPlot, a),
	}

	if houses != nil {
		if implied, err := EstimateImpliedCost(houses, plots); err == nil {
			scenario.Implied = implied
			scenario.ImpliedMedianCostPerSqYd = &implied.MedianCostPerSqYd
		}
	}

	return scenario, nil
}
