package routes

import (
	"commission_tracker/internal/controllers"
	"commission_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.RouterGroup, auth *middleware.Auth, ctl *controllers.AuthController) {
	group := r.Group("/auth")
	{
		group.POST("/register", ctl.Register)
		group.POST("/login", ctl.Login)
		group.GET("/me", auth.RequireAuth(), ctl.Me)
	}
}
