package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins; "*" accepts any origin while still
// permitting credentials.
func CORS(origins []string, allowAll bool) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	conf.AddAllowHeaders("Authorization")
	conf.AllowCredentials = true
	conf.MaxAge = 12 * time.Hour

	if allowAll {
		// Echo any dynamic origin back, which a literal "*" cannot do with
		// credentials.
		conf.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		conf.AllowOrigins = origins
	}
	return cors.New(conf)
}
