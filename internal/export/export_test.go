package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"precinctpulse/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWriter(dir, logger), dir
}

func fptr(v float64) *float64 { return &v }

func sampleSummaries() []models.PrecinctSummary {
	return []models.PrecinctSummary{
		{
			Precinct:        "precinct_10",
			SnapshotID:      "20250101_120000",
			HouseCount:      20,
			GreyCount:       3,
			MedianSize:      125,
			MedianPrice:     12500000,
			MedianUnitPrice: 100000,
			StdDevUnitPrice: 15000,
			Bargains: models.BargainStats{
				BargainCount:        2,
				BargainPct:          10,
				MinBargainUnitPrice: fptr(60000),
				MaxBargainUnitPrice: fptr(70000),
			},
			Regression: models.RegressionModel{Slope: 95000, Intercept: 500000, RSquared: 0.8123, Points: 17},
			AnalyzedAt: time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			Precinct:        "precinct_12",
			HouseCount:      5,
			MedianUnitPrice: 90000,
			StdDevUnitPrice: 8000,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteBargainsSummaryCSV(t *testing.T) {
	w, dir := testWriter(t)
	require.NoError(t, w.WriteBargainsSummaryCSV(sampleSummaries()))

	rows := readCSV(t, filepath.Join(dir, "bargains_summary.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "precinct", rows[0][0])
	assert.Equal(t, []string{
		"precinct_10", "20", "2", "10.00", "100000.00", "15000.00",
		"60000.00", "70000.00", "3",
	}, rows[1])

	// No bargains: the range columns stay empty, not zero.
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][7])
}

func TestWriteBargainsDetailedCSV(t *testing.T) {
	w, dir := testWriter(t)
	z := -1.2345
	details := []models.PropertyDetail{
		{Precinct: "precinct_10", Price: 7500000, Size: 125, UnitPrice: 60000, ZScore: &z, IsBargain: true},
		{Precinct: "precinct_10", Price: 9000000, Size: 125, UnitPrice: 72000, IsGreyStructure: true},
	}
	require.NoError(t, w.WriteBargainsDetailedCSV(details))

	rows := readCSV(t, filepath.Join(dir, "bargains_detailed.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"precinct_10", "7500000.00", "125.00", "60000.00", "-1.2345", "1", "0"}, rows[1])
	assert.Equal(t, []string{"precinct_10", "9000000.00", "125.00", "72000.00", "", "0", "1"}, rows[2])
}

func TestWriteSizeVsPriceCSV(t *testing.T) {
	w, dir := testWriter(t)
	require.NoError(t, w.WriteSizeVsPriceCSV(sampleSummaries()))

	rows := readCSV(t, filepath.Join(dir, "size_vs_price_summary.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "slope", rows[0][5])
	assert.Equal(t, "95000.00", rows[1][5])
	assert.Equal(t, "0.8123", rows[1][7])
}

func TestWriteConstructionCostCSV(t *testing.T) {
	w, dir := testWriter(t)
	scenarios := []models.ConstructionScenario{
		{
			Precinct: "precinct_10",
			Implied: &models.ImpliedCostEstimate{
				Precinct:            "precinct_10",
				HouseCount:          17,
				PlotCount:           30,
				MedianPlotUnitPrice: 50000,
				MedianCostPerSqYd:   48000,
				P25CostPerSqYd:      40000,
				P75CostPerSqYd:      55000,
			},
		},
		// Implied estimate absent: no row.
		{Precinct: "precinct_12"},
	}
	require.NoError(t, w.WriteConstructionCostCSV(scenarios))

	rows := readCSV(t, filepath.Join(dir, "construction_cost_summary.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"precinct_10", "48000.00", "40000.00", "55000.00", "50000.00", "17", "30"}, rows[1])
}

func TestWriteBargainsSummaryJSON(t *testing.T) {
	w, dir := testWriter(t)
	require.NoError(t, w.WriteBargainsSummaryJSON(sampleSummaries()))

	data, err := os.ReadFile(filepath.Join(dir, "bargains_summary.json"))
	require.NoError(t, err)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "precinct_10", entries[0]["precinct"])
	assert.EqualValues(t, 20, entries[0]["n_houses"])
	rng, ok := entries[0]["bargain_price_range"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 60000, rng["min"])
	assert.EqualValues(t, 70000, rng["max"])

	rng2 := entries[1]["bargain_price_range"].(map[string]interface{})
	assert.Nil(t, rng2["min"])
}

func TestWriteBottomUpJSON(t *testing.T) {
	w, dir := testWriter(t)
	defaults := models.BottomUpAssumptions{
		PlotSizeSqYd: 280, Floors: 2, CoverageRatio: 0.70,
		CostPerSqFtLow: 5000, CostPerSqFtHigh: 5500,
		SoftCostPct: 0.03, ContingencyPct: 0.10,
		UtilitiesFixed: 300000, HOAMonthly: 7000, Currency: "PKR",
	}
	scenarios := []models.ConstructionScenario{
		{
			Precinct: "precinct_10",
			BottomUp: models.BottomUpEstimate{
				Precinct:            "precinct_10",
				MedianPlotUnitPrice: 50000,
				PlotSizeSqYd:        280,
				CoveredAreaSqFt:     3528,
				BuildCostLow:        17640000,
			},
			ImpliedMedianCostPerSqYd: fptr(48000),
		},
	}
	require.NoError(t, w.WriteBottomUpJSON(defaults, scenarios))

	data, err := os.ReadFile(filepath.Join(dir, "bottom_up_calculator.json"))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "PKR", out["currency"])

	defs := out["defaults"].(map[string]interface{})
	assert.EqualValues(t, 280, defs["plot_size_sq_yd"])

	scs := out["per_precinct_scenarios"].([]interface{})
	require.Len(t, scs, 1)
	sc := scs[0].(map[string]interface{})
	assert.Equal(t, "precinct_10", sc["precinct"])
	assert.EqualValues(t, 3528, sc["covered_area_sq_ft"])
	assert.EqualValues(t, 48000, sc["implied_construction_cost_per_sq_yd_median"])

	notes := out["assumptions_notes"].(map[string]interface{})
	assert.Contains(t, notes, "coverage_ratio")
}

func TestWritePrecinctWorkbook(t *testing.T) {
	w, dir := testWriter(t)
	z := -1.5
	summary := sampleSummaries()[0]
	details := []models.PropertyDetail{
		{Precinct: "precinct_10", Price: 7500000, Size: 125, UnitPrice: 60000, ZScore: &z, IsBargain: true},
	}
	require.NoError(t, w.WritePrecinctWorkbook(summary, details))

	f, err := excelize.OpenFile(filepath.Join(dir, "precinct_10.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Properties"}, f.GetSheetList())

	rows, err := f.GetRows("Properties")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "precinct", rows[0][0])
	assert.Equal(t, "precinct_10", rows[1][0])

	summaryRows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, summaryRows[0])
	assert.Equal(t, "Precinct", summaryRows[1][0])
}
