package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moodmatch/internal/model"
)

type ModelVersionRepository struct {
	db *gorm.DB
}

func NewModelVersionRepository(db *gorm.DB) *ModelVersionRepository {
	return &ModelVersionRepository{db: db}
}

func (r *ModelVersionRepository) Create(ctx context.Context, v *model.ModelVersion) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create model version failed: %w", err)
	}
	return nil
}

func (r *ModelVersionRepository) Latest(ctx context.Context) (*model.ModelVersion, error) {
	var v model.ModelVersion
	if err := r.db.WithContext(ctx).Order("activated_at DESC").Order("id DESC").First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest model version failed: %w", err)
	}
	return &v, nil
}

func (r *ModelVersionRepository) List(ctx context.Context, limit int) ([]model.ModelVersion, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []model.ModelVersion
	if err := r.db.WithContext(ctx).Order("activated_at DESC").Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list model versions failed: %w", err)
	}
	return out, nil
}
