package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health returns the probe the devices poll before deciding to sync.
// Checks DB connectivity; never exposes credentials or internals.
func Health(db *gorm.DB, inicio time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		status := http.StatusOK
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		estado := "ok"
		if status != http.StatusOK {
			estado = "degraded"
		}

		c.JSON(status, gin.H{
			"status":   estado,
			"database": dbStatus,
			"uptime":   time.Since(inicio).Seconds(),
		})
	}
}
