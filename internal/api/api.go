// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/api/handlers"
	"github.com/coldfront-analytics/dryice-backend/internal/api/middleware"
	"github.com/coldfront-analytics/dryice-backend/internal/integrations"
	"github.com/coldfront-analytics/dryice-backend/internal/maintenance"
	"github.com/coldfront-analytics/dryice-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Analysis     *service.AnalysisService
	Report       *service.ReportService
	Scorer       *maintenance.Scorer
	Integrations *integrations.Registry
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Analysis != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analysis)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/kpis", analyticsHandler.GetKPIs)
				analyticsGroup.GET("/policy", analyticsHandler.GetPolicy)
				analyticsGroup.GET("/dashboard", analyticsHandler.GetDashboard)
				analyticsGroup.GET("/forecast", analyticsHandler.GetForecast)
			}

			inventoryHandler := handlers.NewInventoryHandler(services.Analysis)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/status", inventoryHandler.GetStatus)
				inventoryGroup.GET("/history", inventoryHandler.GetHistory)
				inventoryGroup.POST("/consume", inventoryHandler.Consume)
				inventoryGroup.POST("/receive", inventoryHandler.Receive)
			}

			alertsHandler := handlers.NewAlertsHandler(services.Analysis)
			alertsGroup := apiGroup.Group("/alerts")
			{
				alertsGroup.GET("", alertsHandler.List)
				alertsGroup.POST("/check", alertsHandler.Check)
				alertsGroup.POST("/:id/ack", alertsHandler.Acknowledge)
			}
		}

		if services.Report != nil {
			reportHandler := handlers.NewReportHandler(services.Report)
			apiGroup.POST("/reports", reportHandler.Generate)
		}

		if services.Scorer != nil {
			maintenanceHandler := handlers.NewMaintenanceHandler(services.Scorer)
			apiGroup.POST("/maintenance/containers", maintenanceHandler.ScoreContainers)
		}

		if services.Integrations != nil {
			integrationsHandler := handlers.NewIntegrationsHandler(services.Integrations)
			integrationsGroup := apiGroup.Group("/integrations")
			{
				integrationsGroup.GET("/supported", integrationsHandler.ListSupported)
				integrationsGroup.GET("", integrationsHandler.ListActive)
				integrationsGroup.POST("", integrationsHandler.Setup)
				integrationsGroup.POST("/:system/sync", integrationsHandler.Sync)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
