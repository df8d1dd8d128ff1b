package export

import (
	"fmt"
	"path/filepath"

	"precinctpulse/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Sheet names match the snapshot workbooks the loader reads, so
// analysis outputs round-trip through the same format.
const (
	summarySheet    = "Summary"
	propertiesSheet = "Properties"
)

var propertyHeaders = []string{
	"precinct", "price", "size_sq_yd", "price_per_sq_yd",
	"z_score", "fitted_price", "is_bargain", "is_grey_structure",
}

// WritePrecinctWorkbook writes one precinct's analysis to an xlsx
// workbook: a Summary sheet of metric/value rows and a Properties sheet
// with one row per record.
func (w *Writer) WritePrecinctWorkbook(summary models.PrecinctSummary, details []models.PropertyDetail) error {
	if err := w.ensureOutDir(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(propertiesSheet); err != nil {
		return fmt.Errorf("failed to create properties sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := w.writeSummarySheet(f, headerStyle, summary); err != nil {
		return err
	}
	if err := w.writePropertiesSheet(f, headerStyle, details); err != nil {
		return err
	}

	path := filepath.Join(w.outDir, summary.Precinct+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"file":       path,
		"properties": len(details),
	}).Info("Workbook exported")
	return nil
}

func (w *Writer) writeSummarySheet(f *excelize.File, headerStyle int, s models.PrecinctSummary) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Precinct", s.Precinct},
		{"Snapshot", s.SnapshotID},
		{"Houses (finished)", s.HouseCount},
		{"Grey structures excluded", s.GreyCount},
		{"Median Price (PKR)", s.MedianPrice},
		{"Median Size (sq yd)", s.MedianSize},
		{"Median Price per Sq Yd (PKR)", s.MedianUnitPrice},
		{"Std Dev Price per Sq Yd (PKR)", s.StdDevUnitPrice},
		{"Bargains", s.Bargains.BargainCount},
		{"Bargain Pct", s.Bargains.BargainPct},
		{"Regression Slope", s.Regression.Slope},
		{"Regression Intercept", s.Regression.Intercept},
		{"Regression R Squared", s.Regression.RSquared},
		{"Analyzed At", s.AnalyzedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address summary row: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 30); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}
	return f.SetColWidth(summarySheet, "B", "B", 25)
}

func (w *Writer) writePropertiesSheet(f *excelize.File, headerStyle int, details []models.PropertyDetail) error {
	header := make([]interface{}, len(propertyHeaders))
	for i, h := range propertyHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(propertiesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write properties header: %w", err)
	}

	for i, d := range details {
		var zScore interface{}
		if d.ZScore != nil {
			zScore = *d.ZScore
		}
		row := []interface{}{
			d.Precinct, d.Price, d.Size, d.UnitPrice,
			zScore, d.FittedPrice, d.IsBargain, d.IsGreyStructure,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address properties row: %w", err)
		}
		if err := f.SetSheetRow(propertiesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write properties row: %w", err)
		}
	}

	endCell, err := excelize.CoordinatesToCellName(len(propertyHeaders), 1)
	if err != nil {
		return fmt.Errorf("failed to address properties header: %w", err)
	}
	if err := f.SetCellStyle(propertiesSheet, "A1", endCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style properties header: %w", err)
	}
	return nil
}

// WriteWorkbooks writes one workbook per precinct from a batch result.
func (w *Writer) WriteWorkbooks(summaries []models.PrecinctSummary, details []models.PropertyDetail) error {
	byPrecinct := make(map[string][]models.PropertyDetail)
	for _, d := range details {
		byPrecinct[d.Precinct] = append(byPrecinct[d.Precinct], d)
	}
	for _, s := range summaries {
		if err := w.WritePrecinctWorkbook(s, byPrecinct[s.Precinct]); err != nil {
			return err
		}
	}
	return nil
}
