package database

import (
	"path/filepath"
	"testing"
	"time"

	"precinctpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func fptr(v float64) *float64 { return &v }

func sampleSummary(precinct string) models.PrecinctSummary {
	return models.PrecinctSummary{
		Precinct:        precinct,
		SnapshotID:      "20250101_120000",
		HouseCount:      20,
		GreyCount:       3,
		MedianSize:      125,
		MedianPrice:     12500000,
		MedianUnitPrice: 100000,
		StdDevUnitPrice: 15000,
		UnitPrices: models.UnitPriceStats{
			Median: 100000, StdDev: 15000,
			P10: 80000, P25: 90000, P50: 100000, P75: 110000, P90: 120000,
			Min: 60000, Max: 140000, Count: 20,
		},
		Bargains: models.BargainStats{
			BargainCount:        2,
			BargainPct:          10,
			MinBargainUnitPrice: fptr(60000),
			MaxBargainUnitPrice: fptr(70000),
		},
		Regression: models.RegressionModel{Slope: 95000, Intercept: 500000, RSquared: 0.81, Points: 17},
		AnalyzedAt: time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGetSummaries(t *testing.T) {
	db := setupDatabase(t)

	summaries := []models.PrecinctSummary{
		sampleSummary("precinct_10"),
		sampleSummary("precinct_12"),
	}
	summaries[1].Bargains = models.BargainStats{}
	require.NoError(t, db.SaveSummaries(summaries))

	precincts, err := db.GetPrecincts()
	require.NoError(t, err)
	assert.Equal(t, []string{"precinct_10", "precinct_12"}, precincts)

	got, err := db.GetSummary("precinct_10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.HouseCount)
	assert.Equal(t, 3, got.GreyCount)
	assert.InDelta(t, 100000, got.MedianUnitPrice, 1e-9)
	assert.InDelta(t, 90000, got.UnitPrices.P25, 1e-9)
	assert.InDelta(t, 0.81, got.Regression.RSquared, 1e-9)
	require.NotNil(t, got.Bargains.MinBargainUnitPrice)
	assert.InDelta(t, 60000, *got.Bargains.MinBargainUnitPrice, 1e-9)
	assert.True(t, got.AnalyzedAt.Equal(time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)))

	// Bargain range stays nil when nothing was flagged.
	got, err = db.GetSummary("precinct_12")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Bargains.MinBargainUnitPrice)
	assert.Nil(t, got.Bargains.MaxBargainUnitPrice)
}

func TestGetSummary_Missing(t *testing.T) {
	db := setupDatabase(t)
	got, err := db.GetSummary("precinct_99")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveSummaries_Replaces(t *testing.T) {
	db := setupDatabase(t)

	s := sampleSummary("precinct_10")
	require.NoError(t, db.SaveSummaries([]models.PrecinctSummary{s}))

	s.HouseCount = 25
	s.SnapshotID = "20250201_120000"
	require.NoError(t, db.SaveSummaries([]models.PrecinctSummary{s}))

	precincts, err := db.GetPrecincts()
	require.NoError(t, err)
	assert.Len(t, precincts, 1)

	got, err := db.GetSummary("precinct_10")
	require.NoError(t, err)
	assert.Equal(t, 25, got.HouseCount)
	assert.Equal(t, "20250201_120000", got.SnapshotID)
}

func TestBargainDetails(t *testing.T) {
	db := setupDatabase(t)

	insert := `
		INSERT INTO property_details
		(precinct, snapshot_id, price, size, unit_price, z_score,
		 fitted_price, is_bargain, is_grey_structure, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.GetDB().Exec(insert, "precinct_10", "snap", 9000000, 125, 72000, -1.1, 9500000, 1, 0, now)
	require.NoError(t, err)
	_, err = db.GetDB().Exec(insert, "precinct_10", "snap", 7500000, 125, 60000, -2.2, 9500000, 1, 0, now)
	require.NoError(t, err)
	_, err = db.GetDB().Exec(insert, "precinct_10", "snap", 12500000, 125, 100000, nil, 12000000, 0, 0, now)
	require.NoError(t, err)

	bargains, err := db.GetBargains("precinct_10")
	require.NoError(t, err)
	require.Len(t, bargains, 2)
	// Cheapest per square yard first.
	assert.InDelta(t, 60000, bargains[0].UnitPrice, 1e-9)
	require.NotNil(t, bargains[0].ZScore)
	assert.InDelta(t, -2.2, *bargains[0].ZScore, 1e-9)

	require.NoError(t, db.DeletePrecinctDetails("precinct_10"))
	bargains, err = db.GetBargains("precinct_10")
	require.NoError(t, err)
	assert.Empty(t, bargains)
}

func TestScenarios(t *testing.T) {
	db := setupDatabase(t)

	scenarios := []models.ConstructionScenario{
		{
			Precinct: "precinct_10",
			BottomUp: models.BottomUpEstimate{
				Precinct:            "precinct_10",
				MedianPlotUnitPrice: 50000,
				PlotSizeSqYd:        280,
				CoveredAreaSqFt:     3528,
				BuildCostLow:        17640000,
				BuildCostHigh:       19404000,
				TotalBuildLow:       20233200,
				TotalBuildHigh:      22226520,
				LandCost:            14000000,
				TotalProjectLow:     34233200,
				TotalProjectHigh:    36226520,
			},
			ImpliedMedianCostPerSqYd: fptr(48000),
			AnalyzedAt:               time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			Precinct:   "precinct_12",
			BottomUp:   models.BottomUpEstimate{MedianPlotUnitPrice: 40000, PlotSizeSqYd: 280},
			AnalyzedAt: time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, db.SaveScenarios(scenarios))

	got, err := db.GetConstructionScenarios()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "precinct_10", got[0].Precinct)
	assert.InDelta(t, 3528, got[0].BottomUp.CoveredAreaSqFt, 1e-9)
	require.NotNil(t, got[0].ImpliedMedianCostPerSqYd)
	assert.InDelta(t, 48000, *got[0].ImpliedMedianCostPerSqYd, 1e-9)

	assert.Nil(t, got[1].ImpliedMedianCostPerSqYd)
}
