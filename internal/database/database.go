package database

import (
	"database/sql"
	"fmt"
	"time"

	"precinctpulse/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// GetPrecincts returns the names of all analyzed precincts.
func (d *Database) GetPrecincts() ([]string, error) {
	rows, err := d.db.Query(`
		SELECT precinct
		FROM precinct_summaries
		ORDER BY precinct
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query precincts: %w", err)
	}
	defer rows.Close()

	var precincts []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan precinct: %w", err)
		}
		precincts = append(precincts, p)
	}
	return precincts, rows.Err()
}

// GetAllSummaries returns the latest analysis summary of every
// precinct.
func (d *Database) GetAllSummaries() ([]models.PrecinctSummary, error) {
	rows, err := d.db.Query(summarySelect + " ORDER BY precinct")
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.PrecinctSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, rows.Err()
}

// GetSummary returns the latest analysis summary of one precinct, nil
// when the precinct has never been analyzed.
func (d *Database) GetSummary(precinct string) (*models.PrecinctSummary, error) {
	rows, err := d.db.Query(summarySelect+" WHERE precinct = ?", precinct)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanSummary(rows)
}

const summarySelect = `
	SELECT precinct, snapshot_id, n_houses, n_grey_structures,
	       median_size, median_price, median_unit_price, std_unit_price,
	       p10, p25, p50, p75, p90, min_unit_price, max_unit_price,
	       n_bargains, bargain_pct, min_bargain_unit_price, max_bargain_unit_price,
	       slope, intercept, r_squared, regression_points,
	       COALESCE(analyzed_at, CURRENT_TIMESTAMP) as analyzed_at
	FROM precinct_summaries`

func scanSummary(rows *sql.Rows) (*models.PrecinctSummary, error) {
	var s models.PrecinctSummary
	var minBargain, maxBargain sql.NullFloat64
	var analyzedAt string

	err := rows.Scan(
		&s.Precinct,
		&s.SnapshotID,
		&s.HouseCount,
		&s.GreyCount,
		&s.MedianSize,
		&s.MedianPrice,
		&s.MedianUnitPrice,
		&s.StdDevUnitPrice,
		&s.UnitPrices.P10,
		&s.UnitPrices.P25,
		&s.UnitPrices.P50,
		&s.UnitPrices.P75,
		&s.UnitPrices.P90,
		&s.UnitPrices.Min,
		&s.UnitPrices.Max,
		&s.Bargains.BargainCount,
		&s.Bargains.BargainPct,
		&minBargain,
		&maxBargain,
		&s.Regression.Slope,
		&s.Regression.Intercept,
		&s.Regression.RSquared,
		&s.Regression.Points,
		&analyzedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan summary: %w", err)
	}

	s.UnitPrices.Median = s.MedianUnitPrice
	s.UnitPrices.StdDev = s.StdDevUnitPrice
	s.UnitPrices.Count = s.HouseCount

	if minBargain.Valid {
		v := minBargain.Float64
		s.Bargains.MinBargainUnitPrice = &v
	}
	if maxBargain.Valid {
		v := maxBargain.Float64
		s.Bargains.MaxBargainUnitPrice = &v
	}
	if t, err := time.Parse(time.RFC3339, analyzedAt); err == nil {
		s.AnalyzedAt = t
	}

	return &s, nil
}

// SaveSummaries replaces the stored summary of each analyzed precinct.
func (d *Database) SaveSummaries(summaries []models.PrecinctSummary) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO precinct_summaries
		(precinct, snapshot_id, n_houses, n_grey_structures,
		 median_size, median_price, median_unit_price, std_unit_price,
		 p10, p25, p50, p75, p90, min_unit_price, max_unit_price,
		 n_bargains, bargain_pct, min_bargain_unit_price, max_bargain_unit_price,
		 slope, intercept, r_squared, regression_points, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range summaries {
		var minBargain, maxBargain interface{}
		if s.Bargains.MinBargainUnitPrice != nil {
			minBargain = *s.Bargains.MinBargainUnitPrice
		}
		if s.Bargains.MaxBargainUnitPrice != nil {
			maxBargain = *s.Bargains.MaxBargainUnitPrice
		}

		_, err = stmt.Exec(
			s.Precinct, s.SnapshotID, s.HouseCount, s.GreyCount,
			s.MedianSize, s.MedianPrice, s.MedianUnitPrice, s.StdDevUnitPrice,
			s.UnitPrices.P10, s.UnitPrices.P25, s.UnitPrices.P50,
			s.UnitPrices.P75, s.UnitPrices.P90, s.UnitPrices.Min, s.UnitPrices.Max,
			s.Bargains.BargainCount, s.Bargains.BargainPct, minBargain, maxBargain,
			s.Regression.Slope, s.Regression.Intercept, s.Regression.RSquared,
			s.Regression.Points, s.AnalyzedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeletePrecinctDetails removes a precinct's stored detail rows before
// a fresh batch is persisted.
func (d *Database) DeletePrecinctDetails(precinct string) error {
	_, err := d.db.Exec("DELETE FROM property_details WHERE precinct = ?", precinct)
	if err != nil {
		return fmt.Errorf("failed to delete details for %s: %w", precinct, err)
	}
	return nil
}

// GetBargains returns the flagged bargain rows for one precinct,
// cheapest per square yard first.
func (d *Database) GetBargains(precinct string) ([]models.PropertyDetail, error) {
	rows, err := d.db.Query(`
		SELECT id, precinct, snapshot_id, price, size, unit_price,
		       z_score, fitted_price, is_bargain, is_grey_structure,
		       COALESCE(analyzed_at, CURRENT_TIMESTAMP) as analyzed_at
		FROM property_details
		WHERE precinct = ? AND is_bargain = 1
		ORDER BY unit_price ASC
	`, precinct)
	if err != nil {
		return nil, fmt.Errorf("failed to query bargains: %w", err)
	}
	defer rows.Close()

	var details []models.PropertyDetail
	for rows.Next() {
		var det models.PropertyDetail
		var zScore sql.NullFloat64
		var analyzedAt string

		err := rows.Scan(
			&det.ID, &det.Precinct, &det.SnapshotID,
			&det.Price, &det.Size, &det.UnitPrice,
			&zScore, &det.FittedPrice, &det.IsBargain, &det.IsGreyStructure,
			&analyzedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bargain: %w", err)
		}

		if zScore.Valid {
			v := zScore.Float64
			det.ZScore = &v
		}
		if t, err := time.Parse(time.RFC3339, analyzedAt); err == nil {
			det.AnalyzedAt = t
		}
		details = append(details, det)
	}
	return details, rows.Err()
}

// SaveScenarios replaces the stored construction scenario of each
// precinct.
func (d *Database) SaveScenarios(scenarios []models.ConstructionScenario) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO construction_scenarios
		(precinct, median_plot_unit_price, plot_size, covered_area_sq_ft,
		 build_cost_low, build_cost_high, total_build_low, total_build_high,
		 land_cost, total_project_low, total_project_high,
		 implied_median_cost, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sc := range scenarios {
		var implied interface{}
		if sc.ImpliedMedianCostPerSqYd != nil {
			implied = *sc.ImpliedMedianCostPerSqYd
		}

		b := sc.BottomUp
		_, err = stmt.Exec(
			sc.Precinct, b.MedianPlotUnitPrice, b.PlotSizeSqYd, b.CoveredAreaSqFt,
			b.BuildCostLow, b.BuildCostHigh, b.TotalBuildLow, b.TotalBuildHigh,
			b.LandCost, b.TotalProjectLow, b.TotalProjectHigh,
			implied, sc.AnalyzedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert scenario: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetConstructionScenarios returns the stored scenario of every
// precinct with a land baseline.
func (d *Database) GetConstructionScenarios() ([]models.ConstructionScenario, error) {
	rows, err := d.db.Query(`
		SELECT precinct, median_plot_unit_price, plot_size, covered_area_sq_ft,
		       build_cost_low, build_cost_high, total_build_low, total_build_high,
		       land_cost, total_project_low, total_project_high,
		       implied_median_cost,
		       COALESCE(analyzed_at, CURRENT_TIMESTAMP) as analyzed_at
		FROM construction_scenarios
		ORDER BY precinct
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []models.ConstructionScenario
	for rows.Next() {
		var sc models.ConstructionScenario
		var implied sql.NullFloat64
		var analyzedAt string

		err := rows.Scan(
			&sc.Precinct,
			&sc.BottomUp.MedianPlotUnitPrice,
			&sc.BottomUp.PlotSizeSqYd,
			&sc.BottomUp.CoveredAreaSqFt,
			&sc.BottomUp.BuildCostLow,
			&sc.BottomUp.BuildCostHigh,
			&sc.BottomUp.TotalBuildLow,
			&sc.BottomUp.TotalBuildHigh,
			&sc.BottomUp.LandCost,
			&sc.BottomUp.TotalProjectLow,
			&sc.BottomUp.TotalProjectHigh,
			&implied,
			&analyzedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}

		sc.BottomUp.Precinct = sc.Precinct
		if implied.Valid {
			v := implied.Float64
			sc.ImpliedMedianCostPerSqYd = &v
		}
		if t, err := time.Parse(time.RFC3339, analyzedAt); err == nil {
			sc.AnalyzedAt = t
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}
