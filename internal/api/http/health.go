package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CatalogStatus is what the health check reads from the catalog store.
type CatalogStatus interface {
	Len() int
	LoadedAt() time.Time
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Gateway   string    `json:"gateway"`
	Redis     string    `json:"redis,omitempty"`
	Products  int       `json:"products"`
	LoadedAt  time.Time `json:"catalogLoadedAt,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	gateway     string
	catalog     CatalogStatus
	redis       *redis.Client
}

// NewHealthHandler reports on the catalog and, when rdb is non-nil, Redis.
func NewHealthHandler(serviceName, version, gateway string, catalog CatalogStatus, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		gateway:     gateway,
		catalog:     catalog,
		redis:       rdb,
	}
}

// HealthCheck always answers 200: a catalog that has not loaded yet or a
// Redis outage degrade the service but do not take it down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"

	redisStatus := "disabled"
	if h.redis != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "down"
			status = "degraded"
		} else {
			redisStatus = "up"
		}
	}

	loadedAt := h.catalog.LoadedAt()
	if loadedAt.IsZero() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Gateway:   h.gateway,
		Redis:     redisStatus,
		Products:  h.catalog.Len(),
		LoadedAt:  loadedAt,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
