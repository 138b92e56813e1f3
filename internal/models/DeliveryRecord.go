package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryRecord is the running delivery count for one (user, truck type)
// pair. The composite unique index keeps at most one row per pair.
type DeliveryRecord struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_deliveries_user_truck"`
	TruckType TruckType `json:"truck_type" gorm:"type:varchar(8);not null;uniqueIndex:idx_deliveries_user_truck"`
	Count     int       `json:"count" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (DeliveryRecord) TableName() string { return "deliveries" }

func (d *DeliveryRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
