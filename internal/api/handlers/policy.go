package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/services"
)

type PolicyHandler struct {
	container *services.ServiceContainer
}

func NewPolicyHandler(container *services.ServiceContainer) *PolicyHandler {
	return &PolicyHandler{container: container}
}

func (h *PolicyHandler) classPolicy(class string) ClassPolicy {
	threshold, _ := h.container.Policy.Threshold(class)
	return ClassPolicy{
		Class:     class,
		Threshold: threshold,
		Enabled:   h.container.Policy.IsEnabled(class),
	}
}

type ClassPolicy struct {
	Class     string  `json:"class" example:"person"`
	Threshold float64 `json:"threshold" example:"0.5"`
	Enabled   bool    `json:"enabled" example:"true"`
}

type PolicyResponse struct {
	Classes []ClassPolicy `json:"classes"`
}

type SetThresholdRequest struct {
	Threshold *float64 `json:"threshold" binding:"required" example:"0.7"`
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"false"`
}

// @Summary Get threshold policy
// @Description Per-class confidence thresholds and enabled flags, in model class order
// @Tags policy
// @Produce json
// @Success 200 {object} PolicyResponse
// @Router /policy [get]
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	policy := h.container.Policy
	classes := h.container.Engine.ClassNames()

	resp := PolicyResponse{Classes: make([]ClassPolicy, 0, len(classes))}
	for _, class := range classes {
		threshold, err := policy.Threshold(class)
		if err != nil {
			continue
		}
		resp.Classes = append(resp.Classes, ClassPolicy{
			Class:     class,
			Threshold: threshold,
			Enabled:   policy.IsEnabled(class),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Set class threshold
// @Description Update the confidence threshold for one class. Applies from the next frame; the in-flight frame keeps its snapshot.
// @Tags policy
// @Accept json
// @Produce json
// @Param class path string true "Class name"
// @Param threshold body SetThresholdRequest true "New threshold in [0,1]"
// @Success 200 {object} ClassPolicy
// @Failure 400 {object} ErrorResponse
// @Router /policy/{class}/threshold [put]
func (h *PolicyHandler) SetThreshold(c *gin.Context) {
	class := c.Param("class")

	var req SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.container.ApplyThreshold(class, *req.Threshold); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.classPolicy(class))
}

// @Summary Enable or disable a class
// @Description Toggle alerting for one class. A disabled class is excluded from detection and never alerts.
// @Tags policy
// @Accept json
// @Produce json
// @Param class path string true "Class name"
// @Param enabled body SetEnabledRequest true "Enabled flag"
// @Success 200 {object} ClassPolicy
// @Failure 400 {object} ErrorResponse
// @Router /policy/{class}/enabled [put]
func (h *PolicyHandler) SetEnabled(c *gin.Context) {
	class := c.Param("class")

	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.container.ApplyEnabled(class, *req.Enabled); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.classPolicy(class))
}
