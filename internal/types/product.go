package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	PriorityNormal = "normal"
	PriorityHot    = "hot"
	PriorityUrgent = "urgent"
)

// DefaultEntryStatusName is assigned when a product is created without an
// explicit status.
const DefaultEntryStatusName = "RMA Sorting"

// Product is one physical return-merchandise unit. CurrentTaskID is a cached
// value: the source of truth is recomputation over the product's task
// instances (see ProductService.LocateCurrentTask). Removed hides the product
// from normal queries without deleting its history.
type Product struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SerialNumber    string     `gorm:"uniqueIndex;not null;column:serial_number" json:"serial_number"`
	CategoryID      uuid.UUID  `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	Category        *Category  `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Priority        string     `gorm:"not null;default:'normal';index;column:priority" json:"priority"`
	Description     string     `gorm:"column:description" json:"description"`
	CurrentStatusID *uuid.UUID `gorm:"type:uuid;index;column:current_status_id" json:"current_status_id,omitempty"`
	CurrentStatus   *Status    `gorm:"foreignKey:CurrentStatusID;references:ID" json:"current_status,omitempty"`
	CurrentTaskID   *uuid.UUID `gorm:"type:uuid;column:current_task_id" json:"current_task_id,omitempty"`
	CurrentTask     *Task      `gorm:"foreignKey:CurrentTaskID;references:ID" json:"current_task,omitempty"`
	LocationID      *uuid.UUID `gorm:"type:uuid;index;column:location_id" json:"location_id,omitempty"`
	Location        *Location  `gorm:"foreignKey:LocationID;references:ID" json:"location,omitempty"`
	Removed         bool       `gorm:"not null;default:false;index;column:removed" json:"removed"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityNormal, PriorityHot, PriorityUrgent:
		return true
	}
	return false
}
