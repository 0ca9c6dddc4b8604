package types

import (
	"time"

	"github.com/google/uuid"
)

// StatusTask joins a status to a template task. Position is a strict 1-based
// total order per status; inserts and removals renumber the whole list in a
// single transaction so there are no gaps or duplicates.
type StatusTask struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StatusID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_status_task_pair;column:status_id" json:"status_id"`
	TaskID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_status_task_pair;column:task_id" json:"task_id"`
	Status       *Status   `gorm:"foreignKey:StatusID;references:ID" json:"status,omitempty"`
	Task         *Task     `gorm:"foreignKey:TaskID;references:ID" json:"task,omitempty"`
	IsPredefined bool      `gorm:"not null;default:true;column:is_predefined" json:"is_predefined"`
	Position     int       `gorm:"not null;column:position" json:"position"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (StatusTask) TableName() string {
	return "status_task"
}
