package model

import "time"

type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	ImageURL  string    `gorm:"size:512" json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Album struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	ArtistID  uint      `gorm:"not null;index" json:"artist_id"`
	CoverURL  string    `gorm:"size:512" json:"cover_url,omitempty"`
	Year      int       `json:"year,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Song is a catalog entry. MoodTag holds the bucket name of whichever
// taxonomy the song was last tagged with and may be empty.
type Song struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	ArtistID    uint      `gorm:"not null;index" json:"artist_id"`
	Artist      Artist    `json:"artist"`
	AlbumID     *uint     `gorm:"index" json:"album_id,omitempty"`
	Album       *Album    `json:"album,omitempty"`
	MoodTag     string    `gorm:"size:32;index" json:"mood_tag"`
	DurationSec int       `json:"duration_sec"`
	Platform    string    `gorm:"size:32" json:"platform,omitempty"`
	ExternalID  string    `gorm:"size:128" json:"external_id,omitempty"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Emotion is a row of the legacy emotions table.
type Emotion struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;not null;uniqueIndex" json:"name"`
}

// SongEmotion links a song to a legacy emotion with the tagger's confidence.
type SongEmotion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SongID     uint      `gorm:"not null;uniqueIndex:idx_song_emotion" json:"song_id"`
	EmotionID  uint      `gorm:"not null;uniqueIndex:idx_song_emotion" json:"emotion_id"`
	Confidence float64   `gorm:"not null;default:1" json:"confidence"`
	Source     string    `gorm:"size:32" json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
