package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moodmatch/internal/model"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add likes a song. Liking twice is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, userID, songID uint) error {
	fav := model.FavoriteSong{UserID: userID, SongID: songID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return fmt.Errorf("create favorite failed: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, songID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.FavoriteSong{}).Error
	if err != nil {
		return fmt.Errorf("delete favorite failed: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.FavoriteSong, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var favs []model.FavoriteSong
	err := r.db.WithContext(ctx).
		Preload("Song").Preload("Song.Artist").
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites failed: %w", err)
	}
	return favs, nil
}

func (r *FavoriteRepository) SongIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.FavoriteSong{}).
		Where("user_id = ?", userID).
		Pluck("song_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list favorite song ids failed: %w", err)
	}
	return ids, nil
}
