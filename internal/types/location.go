package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Location is one storage cell on a rack. The (rack, layer, space) triple is
// unique; at most one non-removed product may hold a location at a time.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Rack      string    `gorm:"not null;uniqueIndex:idx_location_cell;column:rack" json:"rack"`
	Layer     int       `gorm:"not null;uniqueIndex:idx_location_cell;column:layer" json:"layer"`
	Space     int       `gorm:"not null;uniqueIndex:idx_location_cell;column:space" json:"space"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Location) TableName() string {
	return "location"
}

func (l *Location) Label() string {
	return fmt.Sprintf("Rack %s - Layer %d - Space %d", l.Rack, l.Layer, l.Space)
}
