package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS precinct_summaries (
			precinct TEXT PRIMARY KEY,
			snapshot_id TEXT NOT NULL,
			n_houses INTEGER NOT NULL,
			n_grey_structures INTEGER NOT NULL DEFAULT 0,
			median_size REAL,
			median_price REAL,
			median_unit_price REAL,
			std_unit_price REAL,
			p10 REAL, p25 REAL, p50 REAL, p75 REAL, p90 REAL,
			min_unit_price REAL,
			max_unit_price REAL,
			n_bargains INTEGER NOT NULL DEFAULT 0,
			bargain_pct REAL,
			min_bargain_unit_price REAL,
			max_bargain_unit_price REAL,
			slope REAL,
			intercept REAL,
			r_squared REAL,
			regression_points INTEGER,
			analyzed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create precinct_summaries table: %v", err)
	}

	// The processor writes this table through gorm; column names follow
	// gorm's snake_case mapping of models.PropertyDetail.
	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS property_details (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			precinct TEXT NOT NULL,
			snapshot_id TEXT NOT NULL,
			price REAL NOT NULL,
			size REAL NOT NULL,
			unit_price REAL NOT NULL,
			z_score REAL,
			fitted_price REAL,
			is_bargain BOOLEAN NOT NULL DEFAULT 0,
			is_grey_structure BOOLEAN NOT NULL DEFAULT 0,
			analyzed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create property_details table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_property_details_precinct
		ON property_details(precinct);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_property_details_bargains
		ON property_details(precinct, is_bargain);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS construction_scenarios (
			precinct TEXT PRIMARY KEY,
			median_plot_unit_price REAL NOT NULL,
			plot_size REAL NOT NULL,
			covered_area_sq_ft REAL NOT NULL,
			build_cost_low REAL,
			build_cost_high REAL,
			total_build_low REAL,
			total_build_high REAL,
			land_cost REAL,
			total_project_low REAL,
			total_project_high REAL,
			implied_median_cost REAL,
			analyzed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create construction_scenarios table: %v", err)
	}

	return nil
}
