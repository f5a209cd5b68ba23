package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Health godoc
// @Summary      Healthcheck
// @Description  Verifica conectividade com Postgres e Redis.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	checks := gin.H{
		"status":   "ok",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"database": "ok",
		"redis":    "ok",
	}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		checks["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	if h.rdb == nil || h.rdb.Ping(ctx).Err() != nil {
		checks["redis"] = "unavailable"
		checks["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, checks)
}
