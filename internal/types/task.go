package types

import (
	"time"

	"github.com/google/uuid"
)

// Task is a reusable template. It carries no per-product state: completion,
// result and note live on ProductTask instances. Skippable is static per
// template; an unskippable task blocks status changes until completed.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Action      string    `gorm:"not null;column:action" json:"action"`
	Description string    `gorm:"column:description" json:"description"`
	Note        string    `gorm:"column:note" json:"note"`
	Skippable   bool      `gorm:"not null;default:false;column:skippable" json:"skippable"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string {
	return "task"
}
