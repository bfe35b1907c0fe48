package models

import (
	"time"

	"gorm.io/datatypes"
)

// OSDRItem — запись каталога датасетов. DatasetID nullable: записи без
// внешнего идентификатора всегда вставляются новыми строками.
type OSDRItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	DatasetID  *string        `gorm:"uniqueIndex:ux_osdr_dataset_id" json:"dataset_id"`
	Title      *string        `gorm:"type:text" json:"title"`
	Status     *string        `gorm:"type:text" json:"status"`
	UpdatedAt  *time.Time     `gorm:"index" json:"updated_at"`
	InsertedAt time.Time      `gorm:"not null;default:now()" json:"inserted_at"`
	Raw        datatypes.JSON `gorm:"type:jsonb;not null" json:"raw"`
}
