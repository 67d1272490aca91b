package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

// AllcodeRepository reads the reference-code table.
type AllcodeRepository struct {
	db *gorm.DB
}

// NewAllcodeRepository creates a new AllcodeRepository.
func NewAllcodeRepository(db *gorm.DB) *AllcodeRepository {
	return &AllcodeRepository{db: db}
}

// ListAll returns every reference code. The table is small and read-only
// from the engine's point of view, so callers snapshot it once at startup.
func (r *AllcodeRepository) ListAll(ctx context.Context) ([]models.Allcode, error) {
	var codes []models.Allcode
	if err := r.db.WithContext(ctx).Order("type asc, key_map asc").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
