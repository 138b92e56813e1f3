package controllers

import (
	"context"

	"commission_tracker/internal/commission"
	"commission_tracker/internal/models"
)

// UserStore is the credential store used by the handlers.
type UserStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error)
}

// Ledger is the delivery ledger used by the handlers.
type Ledger interface {
	Upsert(ctx context.Context, userID string, truckType models.TruckType, count int) error
	ResetAll(ctx context.Context) (int64, error)
}

// StatsSource computes a user's commission stats.
type StatsSource interface {
	ForUser(ctx context.Context, userID string) (commission.Stats, error)
}

// TokenMinter issues bearer tokens for a user id.
type TokenMinter interface {
	Issue(userID string) (string, error)
}

type userView struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func viewOf(u models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Role: u.Role}
}
