package types

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the append-only status history: exactly one row per
// status change, including the initial assignment.
type ProductStatus struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	StatusID  uuid.UUID `gorm:"type:uuid;not null;index;column:status_id" json:"status_id"`
	Status    *Status   `gorm:"foreignKey:StatusID;references:ID" json:"status,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ProductStatus) TableName() string {
	return "product_status"
}
