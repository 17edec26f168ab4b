package model

import "time"

type FavoriteSong struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_song" json:"user_id"`
	SongID    uint      `gorm:"not null;uniqueIndex:idx_user_song;index" json:"song_id"`
	Song      Song      `json:"song"`
	CreatedAt time.Time `json:"created_at"`
}
