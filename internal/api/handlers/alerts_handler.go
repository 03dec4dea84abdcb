package handlers

import (
	"net/http"
	"strconv"

	"github.com/coldfront-analytics/dryice-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AlertsHandler struct {
	service *service.AnalysisService
}

func NewAlertsHandler(service *service.AnalysisService) *AlertsHandler {
	return &AlertsHandler{service: service}
}

type checkAlertsRequest struct {
	CurrentDemandKg *float64 `json:"current_demand_kg"`
	CurrentCost     *float64 `json:"current_cost"`
}

func (h *AlertsHandler) List(c *gin.Context) {
	all, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))
	alerts := h.service.ActiveAlerts(all)

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

// Check runs the alert rules against either the posted readings or, when the
// body is empty, values derived from the dataset.
func (h *AlertsHandler) Check(c *gin.Context) {
	var req checkAlertsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	emitted, err := h.service.CheckAlerts(c.Request.Context(), req.CurrentDemandKg, req.CurrentCost)
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": emitted,
		"total":  len(emitted),
	})
}

func (h *AlertsHandler) Acknowledge(c *gin.Context) {
	id := c.Param("id")
	if !h.service.AcknowledgeAlert(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": "PROCESSED"})
}
