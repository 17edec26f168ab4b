package model

import "time"

// ModelVersion records every model an admin activated.
type ModelVersion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Path        string    `gorm:"size:512;not null" json:"path"`
	Layout      string    `gorm:"size:8;not null" json:"layout"`
	InputShape  string    `gorm:"size:64;not null" json:"input_shape"`
	Classes     int       `gorm:"not null" json:"classes"`
	Rescaling   bool      `json:"rescaling"`
	Fallback    bool      `json:"contract_fallback"`
	ActivatedBy uint      `gorm:"index" json:"activated_by"`
	ActivatedAt time.Time `gorm:"index" json:"activated_at"`
}
