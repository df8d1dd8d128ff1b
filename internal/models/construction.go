package models

import "time"

// BottomUpAssumptions are the fixed inputs of the bottom-up
// construction estimate. All costs are in PKR; sizes in square yards
// unless the field name says otherwise.
type BottomUpAssumptions struct {
	PlotSizeSqYd     float64 `json:"plot_size_sq_yd"`
	Floors           int     `json:"floors"`
	CoverageRatio    float64 `json:"coverage_ratio"`
	CostPerSqFtLow   float64 `json:"cost_per_sq_ft_low"`
	CostPerSqFtHigh  float64 `json:"cost_per_sq_ft_high"`
	SoftCostPct      float64 `json:"soft_cost_pct"`
	ContingencyPct   float64 `json:"contingency_pct"`
	UtilitiesFixed   float64 `json:"utilities_fixed"`
	HOAMonthly       float64 `json:"hoa_monthly"`
	Currency         string  `json:"currency"`
}

// ImpliedCostEstimate is method (a) of the construction estimator:
// per-house unit price minus the precinct's median plot unit price,
// summarized by percentiles.
type ImpliedCostEstimate struct {
	Precinct             string  `json:"precinct"`
	HouseCount           int     `json:"n_houses"`
	PlotCount            int     `json:"n_plots"`
	MedianPlotUnitPrice  float64 `json:"median_plot_price_per_sq_yd"`
	MedianCostPerSqYd    float64 `json:"median_cost_per_sq_yd"`
	P25CostPerSqYd       float64 `json:"p25_cost_per_sq_yd"`
	P75CostPerSqYd       float64 `json:"p75_cost_per_sq_yd"`
}

// BottomUpEstimate is method (b): a transparent cost build-up from the
// assumptions plus the precinct's land baseline.
type BottomUpEstimate struct {
	Precinct             string  `json:"precinct"`
	MedianPlotUnitPrice  float64 `json:"median_plot_price_per_sq_yd"`
	PlotSizeSqYd         float64 `json:"plot_size_sq_yd"`
	CoveredAreaSqFt      float64 `json:"covered_area_sq_ft"`
	BuildCostLow         float64 `json:"build_cost_low"`
	BuildCostHigh        float64 `json:"build_cost_high"`
	SoftCostLow          float64 `json:"soft_cost_low"`
	SoftCostHigh         float64 `json:"soft_cost_high"`
	ContingencyLow       float64 `json:"contingency_low"`
	ContingencyHigh      float64 `json:"contingency_high"`
	UtilitiesFixed       float64 `json:"utilities_fixed"`
	TotalBuildLow        float64 `json:"total_build_low"`
	TotalBuildHigh       float64 `json:"total_build_high"`
	LandCost             float64 `json:"land_cost"`
	TotalProjectLow      float64 `json:"total_project_low"`
	TotalProjectHigh     float64 `json:"total_project_high"`
	BuildCostPerSqYdLow  float64 `json:"build_cost_per_sq_yd_low"`
	BuildCostPerSqYdHigh float64 `json:"build_cost_per_sq_yd_high"`
}

// ConstructionScenario is the per-precinct aggregate combining both
// estimation methods. ImpliedMedianCostPerSqYd is nil when the implied
// estimate could not be computed for the precinct.
type ConstructionScenario struct {
	Precinct                 string               `json:"precinct"`
	Implied                  *ImpliedCostEstimate `json:"implied,omitempty"`
	BottomUp                 BottomUpEstimate     `json:"bottom_up"`
	ImpliedMedianCostPerSqYd *float64             `json:"implied_construction_cost_per_sq_yd_median"`
	AnalyzedAt               time.Time            `json:"analyzed_at"`
}
