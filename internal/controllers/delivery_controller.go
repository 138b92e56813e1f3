package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"commission_tracker/internal/apperr"
	"commission_tracker/internal/commission"
	"commission_tracker/internal/middleware"
	"commission_tracker/internal/models"
	"commission_tracker/internal/response"
)

type DeliveryController struct {
	users  UserStore
	ledger Ledger
	stats  StatsSource
}

func NewDeliveryController(users UserStore, ledger Ledger, stats StatsSource) *DeliveryController {
	return &DeliveryController{users: users, ledger: ledger, stats: stats}
}

type updateInput struct {
	UserID    string `json:"userId" binding:"required"`
	TruckType string `json:"truck_type" binding:"required"`
	// Pointer so an explicit 0 is distinguishable from a missing field.
	Count *int `json:"count" binding:"required"`
}

// userStats is one row of the admin overview.
type userStats struct {
	userView
	commission.Stats
}

// MyDeliveries returns the caller's stats alongside the rate table.
func (dc *DeliveryController) MyDeliveries(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated("Not authenticated"))
		return
	}

	stats, err := dc.stats.ForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":             viewOf(user),
		"stats":            stats,
		"commission_rates": commission.Rates(),
	})
}

// UpdateDelivery sets the count for one user and truck type. Admin only.
func (dc *DeliveryController) UpdateDelivery(c *gin.Context) {
	var input updateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	truckType, err := models.ParseTruckType(input.TruckType)
	if err != nil {
		response.Error(c, apperr.New(apperr.KindInvalidArgument, "Invalid truck type", err))
		return
	}
	if *input.Count < 0 {
		response.Error(c, apperr.InvalidArgument("Count must not be negative"))
		return
	}

	if _, err := dc.users.FindByID(ctx, input.UserID); err != nil {
		response.Error(c, err)
		return
	}

	if err := dc.ledger.Upsert(ctx, input.UserID, truckType, *input.Count); err != nil {
		response.Error(c, err)
		return
	}

	stats, err := dc.stats.ForUser(ctx, input.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	admin, _ := middleware.CurrentUser(c)
	logrus.WithFields(logrus.Fields{
		"admin_id":   admin.ID,
		"user_id":    input.UserID,
		"truck_type": truckType,
		"count":      *input.Count,
	}).Info("delivery count updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery updated successfully",
		"stats":   stats,
	})
}

// ListAllUsers returns every driver and helper with their stats. Admin only.
func (dc *DeliveryController) ListAllUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := dc.users.ListByRoles(ctx, models.CommissionRoles()...)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]userStats, 0, len(users))
	for _, u := range users {
		stats, err := dc.stats.ForUser(ctx, u.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		out = append(out, userStats{userView: viewOf(u), Stats: stats})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// ResetMonth zeroes every ledger row for every user. Admin only.
func (dc *DeliveryController) ResetMonth(c *gin.Context) {
	n, err := dc.ledger.ResetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	admin, _ := middleware.CurrentUser(c)
	logrus.WithFields(logrus.Fields{"admin_id": admin.ID, "rows": n}).Info("monthly reset")

	c.JSON(http.StatusOK, gin.H{
		"message":       "All deliveries reset successfully for the new month",
		"updated_count": n,
	})
}
