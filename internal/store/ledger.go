package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"commission_tracker/internal/apperr"
	"commission_tracker/internal/models"
)

// LedgerStore persists delivery counts keyed by (user, truck type).
type LedgerStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db, now: time.Now}
}

var userTruckKey = []clause.Column{{Name: "user_id"}, {Name: "truck_type"}}

// Upsert replaces the count stored for (userID, truckType), creating the row
// if it does not exist yet.
func (s *LedgerStore) Upsert(ctx context.Context, userID string, truckType models.TruckType, count int) error {
	if !truckType.Valid() {
		return apperr.InvalidArgument("Invalid truck type")
	}
	if count < 0 {
		return apperr.InvalidArgument("Count must not be negative")
	}

	rec := models.DeliveryRecord{
		UserID:    userID,
		TruckType: truckType,
		Count:     count,
		UpdatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   userTruckKey,
		DoUpdates: clause.AssignmentColumns([]string{"count", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return apperr.Internal("database error", err)
	}
	return nil
}

// ResetAll zeroes every ledger row for every user and returns how many rows
// were touched.
func (s *LedgerStore) ResetAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&models.DeliveryRecord{}).
		Updates(map[string]interface{}{
			"count":      0,
			"updated_at": s.now().UTC(),
		})
	if res.Error != nil {
		return 0, apperr.Internal("database error", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *LedgerStore) ListByUser(ctx context.Context, userID string) ([]models.DeliveryRecord, error) {
	var records []models.DeliveryRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error
	if err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return records, nil
}

// seedLedger writes one zero-count row per truck type for a new user.
func seedLedger(tx *gorm.DB, userID string) error {
	now := time.Now().UTC()
	rows := make([]models.DeliveryRecord, 0, len(models.TruckTypes))
	for _, t := range models.TruckTypes {
		rows = append(rows, models.DeliveryRecord{
			UserID:    userID,
			TruckType: t,
			Count:     0,
			UpdatedAt: now,
		})
	}
	return tx.Create(&rows).Error
}
