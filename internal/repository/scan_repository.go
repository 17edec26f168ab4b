package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moodmatch/internal/model"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Create inserts a scan row. Redelivered messages carry the same id and are ignored.
func (r *ScanRepository) Create(ctx context.Context, scan *model.EmotionScan) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(scan).Error; err != nil {
		return fmt.Errorf("create emotion scan failed: %w", err)
	}
	return nil
}

func (r *ScanRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.EmotionScan, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var scans []model.EmotionScan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("list emotion scans failed: %w", err)
	}
	return scans, nil
}
