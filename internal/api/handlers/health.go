package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/config"
	"argus-worker-go/internal/services"
)

type HealthHandler struct {
	cfg       *config.Config
	container *services.ServiceContainer
}

func NewHealthHandler(cfg *config.Config, container *services.ServiceContainer) *HealthHandler {
	return &HealthHandler{cfg: cfg, container: container}
}

type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	WorkerID string `json:"worker_id" example:"worker-1"`
	Session  string `json:"session" example:"running"`
	Nats     bool   `json:"nats_connected"`
}

type WorkerInfoResponse struct {
	WorkerID     string    `json:"worker_id" example:"worker-1"`
	Version      string    `json:"version" example:"1.0.0"`
	Environment  string    `json:"environment" example:"development"`
	StartTime    time.Time `json:"start_time"`
	Classes      int       `json:"classes"`
	Capabilities []string  `json:"capabilities"`
}

var startTime = time.Now()

// @Summary Health check
// @Description Check if the worker is healthy and responsive
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		WorkerID: h.cfg.WorkerID,
		Session:  h.container.Controller.State().String(),
		Nats:     h.container.Messaging != nil && h.container.Messaging.IsConnected(),
	})
}

// @Summary Worker information
// @Description Get basic worker information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID:    h.cfg.WorkerID,
		Version:     h.cfg.Version,
		Environment: h.cfg.Environment,
		StartTime:   startTime,
		Classes:     len(h.container.Engine.ClassNames()),
		Capabilities: []string{
			"object_detection",
			"threshold_alerting",
			"mjpeg_streaming",
			"nats_publishing",
		},
	})
}

// @Summary Prometheus metrics
// @Description Worker counters in Prometheus exposition format
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *HealthHandler) Metrics(c *gin.Context) {
	h.container.Metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
