package models

import "time"

// PropertyCategory distinguishes the two snapshot tables a precinct can have.
type PropertyCategory string

const (
	CategoryHouses PropertyCategory = "houses"
	CategoryPlots  PropertyCategory = "plots"
)

// PropertyRecord is one cleaned row of a precinct snapshot table.
// Records with missing or non-positive price/size are dropped during
// loading and never reach this type.
type PropertyRecord struct {
	Price           float64 `json:"price"`
	Size            float64 `json:"size"`
	Title           string  `json:"title,omitempty"`
	Description     string  `json:"description,omitempty"`
	IsGreyStructure bool    `json:"is_grey_structure"`
	// GreyClassified is false when the classifier fell back to the
	// default instead of producing a real classification.
	GreyClassified bool `json:"-"`
}

// UnitPrice returns price divided by size. Loading guarantees Size > 0.
func (r *PropertyRecord) UnitPrice() float64 {
	return r.Price / r.Size
}

// PrecinctDataset is the ordered collection of records for one precinct
// and category, built fresh from the latest snapshot and immutable once
// loaded.
type PrecinctDataset struct {
	Precinct   string           `json:"precinct"`
	Category   PropertyCategory `json:"category"`
	SnapshotID string           `json:"snapshot_id"`
	Records    []PropertyRecord `json:"records"`

	// Resolved source column names, kept for diagnostics.
	PriceColumn string `json:"price_column"`
	SizeColumn  string `json:"size_column"`

	// Rows dropped during cleaning (non-numeric or non-positive
	// price/size).
	DroppedRows int `json:"dropped_rows"`
}

// NonGrey returns the records outside the grey-structure subset, in
// dataset order.
func (d *PrecinctDataset) NonGrey() []PropertyRecord {
	out := make([]PropertyRecord, 0, len(d.Records))
	for _, r := range d.Records {
		if !r.IsGreyStructure {
			out = append(out, r)
		}
	}
	return out
}

// GreyCount returns the number of grey-structure records.
func (d *PrecinctDataset) GreyCount() int {
	n := 0
	for _, r := range d.Records {
		if r.IsGreyStructure {
			n++
		}
	}
	return n
}

// UnitPriceStats is the distribution of unit prices over the non-grey
// subset of a dataset.
type UnitPriceStats struct {
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// Count is the size of the non-grey baseline.
	Count int `json:"count"`
}

// RegressionModel is an OLS fit of price against size over the non-grey
// subset of a dataset.
type RegressionModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	// Points is the number of pairs the fit was computed over.
	Points int `json:"points"`
}

// Fitted returns the model's predicted price for a given size.
func (m *RegressionModel) Fitted(size float64) float64 {
	return m.Slope*size + m.Intercept
}

// BargainStats summarizes bargain detection over one dataset.
type BargainStats struct {
	BargainCount int     `json:"n_bargains"`
	BargainPct   float64 `json:"bargain_pct"`
	// Min/Max unit price among flagged records; nil when none flagged.
	MinBargainUnitPrice *float64 `json:"min_bargain_price_per_sq_yd"`
	MaxBargainUnitPrice *float64 `json:"max_bargain_price_per_sq_yd"`
}

// PrecinctSummary is the one-per-precinct output record of an analysis
// run.
type PrecinctSummary struct {
	Precinct        string  `json:"precinct"`
	SnapshotID      string  `json:"snapshot_id"`
	HouseCount      int     `json:"n_houses"`
	GreyCount       int     `json:"n_grey_structures"`
	MedianSize      float64 `json:"median_size_sq_yd"`
	MedianPrice     float64 `json:"median_price"`
	MedianUnitPrice float64 `json:"median_price_per_sq_yd"`
	StdDevUnitPrice float64 `json:"std_price_per_sq_yd"`

	UnitPrices UnitPriceStats  `json:"unit_price_stats"`
	Bargains   BargainStats    `json:"bargains"`
	Regression RegressionModel `json:"regression"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// PropertyDetail is the one-per-property output record of an analysis
// run. Batches of these flow through the queue/processor pipeline into
// the database.
type PropertyDetail struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Precinct        string    `json:"precinct" gorm:"index"`
	SnapshotID      string    `json:"snapshot_id"`
	Price           float64   `json:"price"`
	Size            float64   `json:"size_sq_yd"`
	UnitPrice       float64   `json:"price_per_sq_yd"`
	ZScore          *float64  `json:"z_score"`
	FittedPrice     float64   `json:"fitted_price"`
	IsBargain       bool      `json:"is_bargain"`
	IsGreyStructure bool      `json:"is_grey_structure"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// TableName keeps gorm on the same table the raw-SQL reads use.
func (PropertyDetail) TableName() string {
	return "property_details"
}
