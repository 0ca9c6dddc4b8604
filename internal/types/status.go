package types

import (
	"time"

	"github.com/google/uuid"
)

// Status is a named stage in the RMA workflow. Closed statuses are terminal:
// entering one clears the product's current task and releases its location.
type Status struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	IsClosed    bool      `gorm:"not null;default:false;column:is_closed" json:"is_closed"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Status) TableName() string {
	return "status"
}
