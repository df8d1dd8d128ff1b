package api

import (
	"precinctpulse/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func SetupRoutes(router *gin.Engine, db *database.Database, service AnalysisService, logger *logrus.Logger) {
	handler := NewHandler(db, service, logger)

	api := router.Group("/api")
	{
		api.GET("/precincts", handler.GetPrecincts)
		api.GET("/precincts/:precinct/summary", handler.GetPrecinctSummary)
		api.GET("/precincts/:precinct/bargains", handler.GetPrecinctBargains)
		api.GET("/construction", handler.GetConstruction)
		api.POST("/analyze", handler.TriggerAnalysis)
	}
}
