package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"precinctpulse/internal/models"

	"github.com/sirupsen/logrus"
)

// Loader builds precinct datasets from snapshot workbooks.
type Loader struct {
	logger *logrus.Logger
}

// NewLoader creates a dataset loader.
func NewLoader(logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Loader{logger: logger}
}

// LoadSnapshot loads the latest snapshot of one precinct/category pair
// from the data directory layout data/<precinct>/<timestamp>/<category>.xlsx.
func (l *Loader) LoadSnapshot(dataDir, precinct string, category models.PropertyCategory) (*models.PrecinctDataset, error) {
	precinctDir := filepath.Join(dataDir, precinct)
	snapshot, err := LatestSnapshot(precinctDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(precinctDir, snapshot, string(category)+".xlsx")
	rows, err := ReadSheet(path, PropertiesSheet)
	if err != nil {
		return nil, err
	}

	return l.Build(precinct, category, snapshot, rows)
}

// Build converts raw sheet rows (header row first) into a cleaned
// dataset. Rows whose price or size is missing, non-numeric, or
// non-positive are dropped before any statistic can see them.
func (l *Loader) Build(precinct string, category models.PropertyCategory, snapshotID string, rows [][]string) (*models.PrecinctDataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows for %s/%s", precinct, category)
	}

	cols, err := ResolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	ds := &models.PrecinctDataset{
		Precinct:    precinct,
		Category:    category,
		SnapshotID:  snapshotID,
		PriceColumn: cols.PriceName,
		SizeColumn:  cols.SizeName,
	}

	for _, row := range rows[1:] {
		price, okPrice := parseNumeric(cell(row, cols.PriceIndex))
		size, okSize := parseNumeric(cell(row, cols.SizeIndex))
		if !okPrice || !okSize || price <= 0 || size <= 0 {
			ds.DroppedRows++
			continue
		}

		rec := models.PropertyRecord{
			Price:       price,
			Size:        size,
			Title:       cell(row, cols.TitleIndex),
			Description: cell(row, cols.DescriptionIndex),
		}
		grey := ClassifyGreyStructure(rec.Title, rec.Description)
		rec.IsGreyStructure = grey.IsGrey
		rec.GreyClassified = !grey.Fallback

		ds.Records = append(ds.Records, rec)
	}

	l.logger.WithFields(logrus.Fields{
		"precinct": precinct,
		"category": category,
		"snapshot": snapshotID,
		"records":  len(ds.Records),
		"dropped":  ds.DroppedRows,
		"grey":     ds.GreyCount(),
	}).Debug("Loaded dataset")

	return ds, nil
}

// cell returns the trimmed value at idx, or "" when the (ragged) row is
// shorter or the column is absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumeric converts a sheet cell to a float. Thousands separators
// are tolerated since formatted exports store them as text.
func parseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
