package api

import (
	"net/http"
	"os"
	"sync"

	"precinctpulse/internal/analysis"
	"precinctpulse/internal/database"
	"precinctpulse/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalysisService triggers a full analysis batch.
type AnalysisService interface {
	RunOnce() (*analysis.RunResult, error)
}

type Handler struct {
	db      *database.Database
	service AnalysisService
	logger  *logrus.Logger
	runLock sync.Mutex
}

func NewHandler(db *database.Database, service AnalysisService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:      db,
		service: service,
		logger:  logger,
	}
}

// GetPrecincts returns the latest summary of every analyzed precinct.
func (h *Handler) GetPrecincts(c *gin.Context) {
	summaries, err := h.db.GetAllSummaries()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get precinct summaries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get precinct summaries"})
		return
	}
	if summaries == nil {
		summaries = []models.PrecinctSummary{}
	}

	c.JSON(http.StatusOK, summaries)
}

// GetPrecinctSummary returns the latest summary of one precinct.
func (h *Handler) GetPrecinctSummary(c *gin.Context) {
	precinct := c.Param("precinct")

	summary, err := h.db.GetSummary(precinct)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get precinct summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get precinct summary"})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Precinct not analyzed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPrecinctBargains returns the flagged bargains of one precinct,
// cheapest per square yard first.
func (h *Handler) GetPrecinctBargains(c *gin.Context) {
	precinct := c.Param("precinct")

	bargains, err := h.db.GetBargains(precinct)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get bargains")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bargains"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"precinct": precinct,
		"count":    len(bargains),
		"bargains": bargains,
	})
}

// GetConstruction returns the stored construction scenarios.
func (h *Handler) GetConstruction(c *gin.Context) {
	scenarios, err := h.db.GetConstructionScenarios()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get construction scenarios")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get construction scenarios"})
		return
	}

	c.JSON(http.StatusOK, scenarios)
}

// TriggerAnalysis starts a full analysis run in the background. A run
// already in progress is reported instead of doubled.
func (h *Handler) TriggerAnalysis(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis service not configured"})
		return
	}

	if !h.runLock.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis run already in progress"})
		return
	}

	go func() {
		defer h.runLock.Unlock()
		result, err := h.service.RunOnce()
		if err != nil {
			h.logger.WithError(err).Error("Triggered analysis run failed")
			return
		}
		h.logger.WithFields(logrus.Fields{
			"precincts": len(result.Summaries),
			"skipped":   len(result.Skipped),
		}).Info("Triggered analysis run finished")
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "analysis started"})
}
