package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"commission_tracker/internal/commission"
	"commission_tracker/internal/config"
	"commission_tracker/internal/controllers"
	"commission_tracker/internal/middleware"
	"commission_tracker/internal/store"
)

// Options carries what the router needs beyond the database handle.
type Options struct {
	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog io.Writer
	// HashCost overrides the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// SetupRouter wires stores, controllers and middleware onto a new engine.
func SetupRouter(cfg config.Config, db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(opts.AccessLog),
			ginlog.WithUTC(true),
			ginlog.WithDefaultLevel(zerolog.InfoLevel),
		))
	}
	r.Use(middleware.CORS(cfg.CORSOrigins, cfg.AllowAllOrigins()))

	users := store.NewUserStore(db)
	ledger := store.NewLedgerStore(db)
	tokens := middleware.NewTokenIssuer(cfg.SecretKey)
	auth := middleware.NewAuth(tokens, users)

	authCtl := controllers.NewAuthController(users, tokens, opts.HashCost)
	deliveryCtl := controllers.NewDeliveryController(users, ledger, commission.NewAggregator(ledger))

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	api := r.Group("/api")
	AuthRoutes(api, auth, authCtl)
	DeliveryRoutes(api, auth, deliveryCtl)

	return r
}
