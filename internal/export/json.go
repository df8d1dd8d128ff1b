package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"precinctpulse/internal/models"
)

// portfolioEntry is the lightweight per-precinct shape the portfolio
// frontend consumes.
type portfolioEntry struct {
	Precinct        string            `json:"precinct"`
	HouseCount      int               `json:"n_houses"`
	BargainCount    int               `json:"n_bargains"`
	BargainPct      float64           `json:"bargain_pct"`
	MedianUnitPrice float64           `json:"median_price_per_sq_yd"`
	StdDevUnitPrice float64           `json:"std_price_per_sq_yd"`
	BargainRange    bargainPriceRange `json:"bargain_price_range"`
}

type bargainPriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// bottomUpScenario flattens a construction scenario into the calculator
// output row, the bottom-up cost build-up plus the implied-cost
// cross-check.
type bottomUpScenario struct {
	models.BottomUpEstimate
	ImpliedMedianCostPerSqYd *float64 `json:"implied_construction_cost_per_sq_yd_median"`
}

type bottomUpOutput struct {
	Defaults         models.BottomUpAssumptions `json:"defaults"`
	AssumptionsNotes map[string]string          `json:"assumptions_notes"`
	Scenarios        []bottomUpScenario         `json:"per_precinct_scenarios"`
	Currency         string                     `json:"currency"`
}

func (w *Writer) writeJSON(filename string, v interface{}) error {
	if err := w.ensureOutDir(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}

	path := filepath.Join(w.outDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	w.logger.WithField("file", path).Info("JSON exported")
	return nil
}

// WriteBargainsSummaryJSON writes the portfolio summary with the
// per-precinct bargain price range nested.
func (w *Writer) WriteBargainsSummaryJSON(summaries []models.PrecinctSummary) error {
	entries := make([]portfolioEntry, len(summaries))
	for i, s := range summaries {
		entries[i] = portfolioEntry{
			Precinct:        s.Precinct,
			HouseCount:      s.HouseCount,
			BargainCount:    s.Bargains.BargainCount,
			BargainPct:      s.Bargains.BargainPct,
			MedianUnitPrice: s.MedianUnitPrice,
			StdDevUnitPrice: s.StdDevUnitPrice,
			BargainRange: bargainPriceRange{
				Min: s.Bargains.MinBargainUnitPrice,
				Max: s.Bargains.MaxBargainUnitPrice,
			},
		}
	}
	return w.writeJSON("bargains_summary.json", entries)
}

// WriteBottomUpJSON writes the construction calculator output: the
// assumption defaults, notes on what each assumption covers, and one
// scenario per precinct with a land baseline.
func (w *Writer) WriteBottomUpJSON(defaults models.BottomUpAssumptions, scenarios []models.ConstructionScenario) error {
	out := bottomUpOutput{
		Defaults: defaults,
		AssumptionsNotes: map[string]string{
			"coverage_ratio":  "Share of plot covered per floor (user to validate)",
			"cost_per_sq_ft":  "Finished, good grade; excludes land; range from contractor quote",
			"soft_cost_pct":   "Design/approvals/fees allowance",
			"contingency_pct": "Unforeseen costs allowance",
			"utilities_fixed": "Connection/ancillary fixed allowance (assumed)",
			"hoa_monthly":     "Monthly maintenance context (not in build)",
		},
		Scenarios: make([]bottomUpScenario, len(scenarios)),
		Currency:  defaults.Currency,
	}
	for i, sc := range scenarios {
		out.Scenarios[i] = bottomUpScenario{
			BottomUpEstimate:         sc.BottomUp,
			ImpliedMedianCostPerSqYd: sc.ImpliedMedianCostPerSqYd,
		}
	}
	return w.writeJSON("bottom_up_calculator.json", out)
}
