package routes

import (
	"commission_tracker/internal/controllers"
	"commission_tracker/internal/middleware"
	"commission_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func DeliveryRoutes(r *gin.RouterGroup, auth *middleware.Auth, ctl *controllers.DeliveryController) {
	deliveries := r.Group("/deliveries")
	deliveries.Use(auth.RequireAuth())
	{
		deliveries.GET("/my", ctl.MyDeliveries)
	}

	admin := deliveries.Group("")
	admin.Use(auth.RequireRole(models.RoleAdmin))
	{
		admin.POST("/update", ctl.UpdateDelivery)
		admin.GET("/all-users", ctl.ListAllUsers)
		admin.POST("/reset-month", ctl.ResetMonth)
	}
}
