package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"precinctpulse/internal/models"

	"github.com/sirupsen/logrus"
)

func (w *Writer) writeCSV(filename string, headers []string, rows [][]string) error {
	if err := w.ensureOutDir(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", filename, err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", filename, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filename, err)
	}

	w.logger.WithFields(logrus.Fields{"file": path, "rows": len(rows)}).Info("CSV exported")
	return nil
}

// WriteBargainsSummaryCSV writes one row per precinct with bargain
// counts and the unit-price baseline.
func (w *Writer) WriteBargainsSummaryCSV(summaries []models.PrecinctSummary) error {
	headers := []string{
		"precinct", "n_houses", "n_bargains", "bargain_pct",
		"median_price_per_sq_yd", "std_price_per_sq_yd",
		"min_bargain_price_per_sq_yd", "max_bargain_price_per_sq_yd",
		"n_grey_structures",
	}
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Precinct,
			strconv.Itoa(s.HouseCount),
			strconv.Itoa(s.Bargains.BargainCount),
			ftoa(s.Bargains.BargainPct, 2),
			ftoa(s.MedianUnitPrice, 2),
			ftoa(s.StdDevUnitPrice, 2),
			ftoaPtr(s.Bargains.MinBargainUnitPrice, 2),
			ftoaPtr(s.Bargains.MaxBargainUnitPrice, 2),
			strconv.Itoa(s.GreyCount),
		}
	}
	return w.writeCSV("bargains_summary.csv", headers, rows)
}

// WriteBargainsDetailedCSV writes one row per property across all
// precincts, grey structures included so their z-scores stay visible.
func (w *Writer) WriteBargainsDetailedCSV(details []models.PropertyDetail) error {
	headers := []string{
		"precinct", "price", "size_sq_yd", "price_per_sq_yd",
		"z_score", "is_bargain", "is_grey_structure",
	}
	rows := make([][]string, len(details))
	for i, d := range details {
		zScore := ""
		if d.ZScore != nil {
			zScore = ftoa(*d.ZScore, 4)
		}
		rows[i] = []string{
			d.Precinct,
			ftoa(d.Price, 2),
			ftoa(d.Size, 2),
			ftoa(d.UnitPrice, 2),
			zScore,
			boolToFlag(d.IsBargain),
			boolToFlag(d.IsGreyStructure),
		}
	}
	return w.writeCSV("bargains_detailed.csv", headers, rows)
}

// WriteSizeVsPriceCSV writes the per-precinct regression summary.
func (w *Writer) WriteSizeVsPriceCSV(summaries []models.PrecinctSummary) error {
	headers := []string{
		"precinct", "n_houses", "median_size_sq_yd", "median_price",
		"median_price_per_sq_yd", "slope", "intercept", "r_squared",
		"n_grey_structures",
	}
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Precinct,
			strconv.Itoa(s.HouseCount),
			ftoa(s.MedianSize, 2),
			ftoa(s.MedianPrice, 2),
			ftoa(s.MedianUnitPrice, 2),
			ftoa(s.Regression.Slope, 2),
			ftoa(s.Regression.Intercept, 2),
			ftoa(s.Regression.RSquared, 4),
			strconv.Itoa(s.GreyCount),
		}
	}
	return w.writeCSV("size_vs_price_summary.csv", headers, rows)
}

// WriteConstructionCostCSV writes the implied construction cost summary
// for precincts where both datasets were available.
func (w *Writer) WriteConstructionCostCSV(scenarios []models.ConstructionScenario) error {
	headers := []string{
		"precinct", "median_cost_per_sq_yd", "p25_cost_per_sq_yd",
		"p75_cost_per_sq_yd", "median_plot_price_per_sq_yd",
		"n_houses", "n_plots",
	}
	var rows [][]string
	for _, sc := range scenarios {
		if sc.Implied == nil {
			continue
		}
		rows = append(rows, []string{
			sc.Precinct,
			ftoa(sc.Implied.MedianCostPerSqYd, 2),
			ftoa(sc.Implied.P25CostPerSqYd, 2),
			ftoa(sc.Implied.P75CostPerSqYd, 2),
			ftoa(sc.Implied.MedianPlotUnitPrice, 2),
			strconv.Itoa(sc.Implied.HouseCount),
			strconv.Itoa(sc.Implied.PlotCount),
		})
	}
	return w.writeCSV("construction_cost_summary.csv", headers, rows)
}
