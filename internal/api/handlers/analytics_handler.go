package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coldfront-analytics/dryice-backend/internal/analysis"
	"github.com/coldfront-analytics/dryice-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *service.AnalysisService
}

func NewAnalyticsHandler(service *service.AnalysisService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetKPIs(c *gin.Context) {
	kpis, err := h.service.KPIs(c.Request.Context())
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, kpis)
}

func (h *AnalyticsHandler) GetPolicy(c *gin.Context) {
	policy, err := h.service.Policy(c.Request.Context())
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, policy)
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	snapshot, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *AnalyticsHandler) GetForecast(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}

	c.JSON(http.StatusOK, h.service.Forecast(c.Request.Context(), days))
}

// analysisError maps computation failures: degenerate datasets are the
// client's problem, everything else is ours.
func analysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysis.ErrEmptyDataset),
		errors.Is(err, analysis.ErrZeroContainers),
		errors.Is(err, analysis.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed", "details": err.Error()})
	}
}
