package handlers

import (
	"net/http"

	"github.com/coldfront-analytics/dryice-backend/internal/integrations"
	"github.com/gin-gonic/gin"
)

type IntegrationsHandler struct {
	registry *integrations.Registry
}

func NewIntegrationsHandler(registry *integrations.Registry) *IntegrationsHandler {
	return &IntegrationsHandler{registry: registry}
}

type setupIntegrationRequest struct {
	SystemType  string                   `json:"system_type" binding:"required"`
	Credentials integrations.Credentials `json:"credentials" binding:"required"`
}

func (h *IntegrationsHandler) ListSupported(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"supported": integrations.Supported()})
}

func (h *IntegrationsHandler) ListActive(c *gin.Context) {
	active := h.registry.Active()
	c.JSON(http.StatusOK, gin.H{
		"integrations": active,
		"total":        len(active),
	})
}

func (h *IntegrationsHandler) Setup(c *gin.Context) {
	var req setupIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "system_type and credentials are required"})
		return
	}

	conn, err := h.registry.Setup(req.SystemType, req.Credentials)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, conn)
}

func (h *IntegrationsHandler) Sync(c *gin.Context) {
	result, err := h.registry.Sync(c.Param("system"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
