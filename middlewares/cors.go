package middlewares

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware membuka akses dari semua origin; preflight OPTIONS
// dijawab kosong. Klien web dan mobile sama-sama memakai API ini.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", "Accept", "Cache-Control", "X-Requested-With", "apikey", "x-client-info"},
		MaxAge: 12 * time.Hour,
	})
}
