package model

import "time"

// EmotionScan is the history row for one scan. Image bytes are never stored.
type EmotionScan struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	RawLabel         string    `gorm:"size:32;not null" json:"raw_label"`
	MoodBucket       string    `gorm:"size:32;not null" json:"mood_bucket"`
	TaxonomyVersion  string    `gorm:"size:32;not null" json:"taxonomy_version"`
	Tier             int       `gorm:"not null" json:"tier"`
	PrimarySongID    *uint     `json:"primary_song_id,omitempty"`
	MatchCount       int       `json:"match_count"`
	FaceFound        bool      `json:"face_found"`
	ModelUnavailable bool      `json:"model_unavailable"`
	InferenceFailed  bool      `json:"inference_failed"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}
