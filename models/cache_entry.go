package models

import "time"

// CacheEntry holds one cached explanation, translation or audio clip.
// Payload is the JSON document written by the cache package.
type CacheEntry struct {
	CacheKey  string    `gorm:"primaryKey;size:191"`
	Kind      string    `gorm:"not null;size:20;index"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}
