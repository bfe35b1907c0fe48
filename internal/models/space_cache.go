package models

import (
	"time"

	"gorm.io/datatypes"
)

type SpaceCache struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Source    string         `gorm:"not null;index" json:"source"`
	FetchedAt time.Time      `gorm:"not null;default:now()" json:"fetched_at"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
}
