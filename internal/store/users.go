package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commission_tracker/internal/apperr"
	"commission_tracker/internal/models"
)

const msgUsernameTaken = "Username already exists"

// UserStore is the credential store.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Exists reports whether a user with the given username is registered.
func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("database error", err)
	}
	return count > 0, nil
}

// Create inserts the user and seeds one zero-count ledger row per truck type
// in the same transaction. A taken username yields a Conflict error.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return seedLedger(tx, user.ID)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.KindConflict, msgUsernameTaken, err)
	}
	return translate(err, "User not found")
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, translate(err, "User not found")
}

func (s *UserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, translate(err, "User not found")
}

// ListByRoles returns every user holding one of roles, ordered by username.
func (s *UserStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	users := []models.User{}
	if len(roles) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).
		Where("role IN ?", roles).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return users, nil
}
