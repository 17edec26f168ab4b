package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moodmatch/internal/model"
)

type SongRepository struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Song{}).Preload("Artist").Where("songs.is_active = ?", true)
}

// FindByMoodTag returns active songs tagged with bucket, compared case-insensitively.
func (r *SongRepository) FindByMoodTag(ctx context.Context, bucket string, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.active(ctx).
		Where("LOWER(songs.mood_tag) = LOWER(?)", bucket).
		Order("songs.id ASC").Limit(limit).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("query songs by mood tag failed: %w", err)
	}
	return songs, nil
}

// FindByLegacyEmotion returns active songs linked to the named legacy emotion,
// strongest link first.
func (r *SongRepository) FindByLegacyEmotion(ctx context.Context, name string, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.active(ctx).Select("songs.*").
		Joins("JOIN song_emotions ON song_emotions.song_id = songs.id").
		Joins("JOIN emotions ON emotions.id = song_emotions.emotion_id").
		Where("LOWER(emotions.name) = LOWER(?)", name).
		Order("song_emotions.confidence DESC").Order("songs.id ASC").
		Limit(limit).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("query songs by legacy emotion failed: %w", err)
	}
	return songs, nil
}

// RandomSample draws n active songs in random order.
func (r *SongRepository) RandomSample(ctx context.Context, n int) ([]model.Song, error) {
	var songs []model.Song
	err := r.active(ctx).Order(r.randomOrder()).Limit(n).Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("sample songs failed: %w", err)
	}
	return songs, nil
}

func (r *SongRepository) randomOrder() string {
	if r.db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}

func (r *SongRepository) GetByID(ctx context.Context, id uint) (*model.Song, error) {
	var song model.Song
	if err := r.db.WithContext(ctx).Preload("Artist").First(&song, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query song by id failed: %w", err)
	}
	return &song, nil
}

func (r *SongRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Song{}).Where("is_active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count songs failed: %w", err)
	}
	return n, nil
}
