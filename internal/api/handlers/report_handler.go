package handlers

import (
	"net/http"

	"github.com/coldfront-analytics/dryice-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type generateReportRequest struct {
	ForecastDays int `json:"forecast_days"`
}

func (h *ReportHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.ForecastDays < 0 || req.ForecastDays > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "forecast_days must be between 0 and 365"})
		return
	}

	path, err := h.service.Generate(c.Request.Context(), req.ForecastDays)
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path})
}
