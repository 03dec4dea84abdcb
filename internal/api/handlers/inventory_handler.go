package handlers

import (
	"net/http"

	"github.com/coldfront-analytics/dryice-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.AnalysisService
}

func NewInventoryHandler(service *service.AnalysisService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type stockMovementRequest struct {
	QuantityKg float64 `json:"quantity_kg" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
}

func (h *InventoryHandler) GetStatus(c *gin.Context) {
	state, err := h.service.Status(c.Request.Context())
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *InventoryHandler) GetHistory(c *gin.Context) {
	history := h.service.History(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"transactions": history,
		"total":        len(history),
	})
}

func (h *InventoryHandler) Consume(c *gin.Context) {
	var req stockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity_kg must be a positive number"})
		return
	}

	state, alert, err := h.service.Consume(c.Request.Context(), req.QuantityKg, req.Reason)
	if err != nil {
		analysisError(c, err)
		return
	}

	resp := gin.H{"stock": state}
	if alert != nil {
		resp["alert"] = alert
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Receive(c *gin.Context) {
	var req stockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity_kg must be a positive number"})
		return
	}

	state, err := h.service.Receive(c.Request.Context(), req.QuantityKg, req.Reason)
	if err != nil {
		analysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": state})
}
