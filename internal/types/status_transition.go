package types

import (
	"time"

	"github.com/google/uuid"
)

// StatusTransition is a directed edge in the status graph. The (from, to)
// pair is unique so repeated inserts cannot produce duplicate edges, and
// CreatedAt orders the possible-next-statuses listing.
type StatusTransition struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromStatusID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transition_edge;column:from_status_id" json:"from_status_id"`
	ToStatusID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transition_edge;column:to_status_id" json:"to_status_id"`
	FromStatus   *Status   `gorm:"foreignKey:FromStatusID;references:ID" json:"from_status,omitempty"`
	ToStatus     *Status   `gorm:"foreignKey:ToStatusID;references:ID" json:"to_status,omitempty"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}

func (StatusTransition) TableName() string {
	return "status_transition"
}
