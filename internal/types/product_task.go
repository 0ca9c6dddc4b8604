package types

import (
	"time"

	"github.com/google/uuid"
)

// ProductTask is one assignment of a template task to a product. A pair may
// be assigned more than once across status visits; the engine guarantees at
// most one row per (product, task) is active (neither completed nor skipped)
// at a time. Once completed or skipped the row is terminal and immutable.
//
// Position is copied from the spawning StatusTask. Ad-hoc rows keep position
// zero and sort after all predefined rows by creation time.
type ProductTask struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	Product      *Product  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	TaskID       uuid.UUID `gorm:"type:uuid;not null;index;column:task_id" json:"task_id"`
	Task         *Task     `gorm:"foreignKey:TaskID;references:ID" json:"task,omitempty"`
	IsCompleted  bool      `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	IsSkipped    bool      `gorm:"not null;default:false;column:is_skipped" json:"is_skipped"`
	IsPredefined bool      `gorm:"not null;default:false;column:is_predefined" json:"is_predefined"`
	Position     int       `gorm:"not null;default:0;column:position" json:"position"`
	Result       string    `gorm:"column:result" json:"result"`
	Note         string    `gorm:"column:note" json:"note"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (ProductTask) TableName() string {
	return "product_task"
}

// Active reports whether the instance still represents outstanding work.
func (pt *ProductTask) Active() bool {
	return !pt.IsCompleted && !pt.IsSkipped
}
