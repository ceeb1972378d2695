package models

import "time"

// Link maps a short code to its target URL along with click telemetry
type Link struct {
	ID          uint       `gorm:"primarykey" json:"-"`
	Code        string     `gorm:"size:8;uniqueIndex;not null" json:"code"`
	URL         string     `gorm:"type:text;not null" json:"url"`
	Clicks      int64      `gorm:"not null;default:0" json:"clicks"`
	LastClicked *time.Time `json:"lastClicked"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
}
