package database

import (
	"fmt"

	"precinctpulse/internal/models"

	"gorm.io/gorm"
)

// ReplaceDetails swaps a precinct's stored detail rows for a fresh
// batch inside the caller's transaction. Batches carry one precinct, so
// the first row's precinct covers the whole batch.
func ReplaceDetails(tx *gorm.DB, batch []*models.PropertyDetail) error {
	if len(batch) == 0 {
		return nil
	}

	precinct := batch[0].Precinct
	if err := tx.Where("precinct = ?", precinct).Delete(&models.PropertyDetail{}).Error; err != nil {
		return fmt.Errorf("failed to delete stale details for %s: %w", precinct, err)
	}
	if err := tx.Create(&batch).Error; err != nil {
		return fmt.Errorf("failed to insert details for %s: %w", precinct, err)
	}
	return nil
}
