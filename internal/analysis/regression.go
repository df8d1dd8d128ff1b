package analysis

import (
	"math"

	"precinctpulse/internal/models"

	"gonum.org/v1/gonum/stat"
)

// FitRegression fits price = slope*size + intercept by ordinary least
// squares over the non-grey records. Fewer than two valid pairs yields
// the defined (0, 0) fallback rather than an error. When all prices are
// identical (SS_tot == 0), r_squared is reported as 0 by convention.
func FitRegression(ds *models.PrecinctDataset) models.RegressionModel {
	nonGrey := ds.NonGrey()
	if len(nonGrey) < 2 {
		return models.RegressionModel{Points: len(nonGrey)}
	}

	sizes := make([]float64, len(nonGrey))
	prices := make([]float64, len(nonGrey))
	for i := range nonGrey {
		sizes[i] = nonGrey[i].Size
		prices[i] = nonGrey[i].Price
	}

	intercept, slope := stat.LinearRegression(sizes, prices, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		// Identical sizes leave the system singular; treat like the
		// insufficient-data case.
		return models.RegressionModel{Points: len(nonGrey)}
	}

	meanPrice := stat.Mean(prices, nil)
	var ssRes, ssTot float64
	for i := range prices {
		fitted := slope*sizes[i] + intercept
		ssRes += (prices[i] - fitted) * (prices[i] - fitted)
		ssTot += (prices[i] - meanPrice) * (prices[i] - meanPrice)
	}

	rSquared := 0.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return models.RegressionModel{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		Points:    len(nonGrey),
	}
}
