package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/logging"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/services"
	"argus-worker-go/internal/session"
)

type SessionHandler struct {
	container *services.ServiceContainer
}

func NewSessionHandler(container *services.ServiceContainer) *SessionHandler {
	return &SessionHandler{container: container}
}

type SessionStatusResponse struct {
	State     string `json:"state" example:"running"`
	Source    string `json:"source" example:"camera:0"`
	Open      bool   `json:"source_open"`
	LastError string `json:"last_error,omitempty"`
}

type SetSourceRequest struct {
	Kind        string `json:"kind" binding:"required" example:"video"`
	DeviceIndex int    `json:"device_index,omitempty" example:"0"`
	Path        string `json:"path,omitempty" example:"/data/clip.mp4"`
}

type SessionActionResponse struct {
	State string `json:"state" example:"running"`
}

// @Summary Session status
// @Description Current session state, configured source and last session error
// @Tags session
// @Produce json
// @Success 200 {object} SessionStatusResponse
// @Router /session [get]
func (h *SessionHandler) GetStatus(c *gin.Context) {
	resp := SessionStatusResponse{
		State:  h.container.Controller.State().String(),
		Source: h.container.Controller.Source().Describe(),
		Open:   h.container.SourceMgr.IsOpen(),
	}
	if err := h.container.Controller.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Start detection session
// @Description Start the detect-and-alert loop on the configured source
// @Tags session
// @Produce json
// @Success 200 {object} SessionActionResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/start [post]
func (h *SessionHandler) Start(c *gin.Context) {
	if err := h.container.Controller.Start(); err != nil {
		respondError(c, err)
		return
	}
	logging.Info(c).Str("source", h.container.Controller.Source().Describe()).Msg("Session started via API")
	c.JSON(http.StatusOK, SessionActionResponse{State: h.container.Controller.State().String()})
}

// @Summary Stop detection session
// @Description Stop the running session; a no-op when already idle
// @Tags session
// @Produce json
// @Success 200 {object} SessionActionResponse
// @Router /session/stop [post]
func (h *SessionHandler) Stop(c *gin.Context) {
	if err := h.container.Controller.Stop(); err != nil {
		respondError(c, err)
		return
	}
	logging.Info(c).Msg("Session stopped via API")
	c.JSON(http.StatusOK, SessionActionResponse{State: h.container.Controller.State().String()})
}

// @Summary Switch frame source
// @Description Point the session at a camera, video file or still image. Takes effect immediately; a running loop continues on the new source.
// @Tags session
// @Accept json
// @Produce json
// @Param source body SetSourceRequest true "Source descriptor"
// @Success 200 {object} SessionStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/source [post]
func (h *SessionHandler) SetSource(c *gin.Context) {
	var req SetSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var src models.Source
	switch req.Kind {
	case "camera":
		src = models.CameraSource(req.DeviceIndex)
	case "video":
		src = models.VideoSource(req.Path)
	case "image":
		src = models.ImageSource(req.Path)
	default:
		respondError(c, fmt.Errorf("%w: unknown source kind %q", session.ErrInvalidArgument, req.Kind))
		return
	}

	if (src.Kind == models.SourceVideo || src.Kind == models.SourceImage) && src.Path == "" {
		respondError(c, fmt.Errorf("%w: path is required for %s sources", session.ErrInvalidArgument, req.Kind))
		return
	}

	if err := h.container.Controller.SetSource(src); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionStatusResponse{
		State:  h.container.Controller.State().String(),
		Source: src.Describe(),
		Open:   h.container.SourceMgr.IsOpen(),
	})
}
