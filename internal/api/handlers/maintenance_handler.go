package handlers

import (
	"net/http"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/maintenance"
	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	scorer *maintenance.Scorer
}

func NewMaintenanceHandler(scorer *maintenance.Scorer) *MaintenanceHandler {
	return &MaintenanceHandler{scorer: scorer}
}

type containerReadingsRequest struct {
	Readings []domain.ContainerReading `json:"readings" binding:"required,min=1"`
}

// ScoreContainers rates a batch of container readings. One bad reading fails
// the whole batch so callers never get a partial scorecard.
func (h *MaintenanceHandler) ScoreContainers(c *gin.Context) {
	var req containerReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "readings must be a non-empty array"})
		return
	}

	reports := make([]domain.MaintenanceReport, 0, len(req.Readings))
	for _, reading := range req.Readings {
		report, err := h.scorer.Score(reading)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		reports = append(reports, report)
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   len(reports),
	})
}
