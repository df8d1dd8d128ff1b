package main

import (
	"os"

	"precinctpulse/config"
	"precinctpulse/internal/analysis"
	"precinctpulse/internal/export"
	"precinctpulse/internal/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// analyze runs one analysis batch over the snapshot workbooks and
// writes the CSV, JSON, and xlsx artifacts. No database or server is
// involved.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Analysis.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	runner := analysis.NewRunner(analysis.Options{
		DataDir:     cfg.Analysis.DataDir,
		Verbose:     cfg.Analysis.Verbose,
		Assumptions: buildAssumptions(cfg),
	}, logger)
	exporter := export.NewWriter(cfg.Analysis.OutputDir, logger)
	service := analysis.NewService(runner, nil, nil, exporter, nil, logger)

	result, err := service.RunOnce()
	if err != nil {
		logger.WithError(err).Fatal("Analysis run failed")
	}

	for _, skipped := range result.Skipped {
		logger.WithFields(logrus.Fields{
			"precinct": skipped.Precinct,
			"reason":   skipped.Reason,
		}).Warn("Precinct skipped")
	}

	logger.WithFields(logrus.Fields{
		"precincts": len(result.Summaries),
		"skipped":   len(result.Skipped),
		"output":    cfg.Analysis.OutputDir,
	}).Info("Artifacts written")
}

// buildAssumptions applies the configured overrides on top of the
// estimator defaults.
func buildAssumptions(cfg *config.Config) models.BottomUpAssumptions {
	a := analysis.DefaultAssumptions()
	if cfg.Construction.PlotSizeSqYd > 0 {
		a.PlotSizeSqYd = cfg.Construction.PlotSizeSqYd
	}
	if cfg.Construction.Floors > 0 {
		a.Floors = cfg.Construction.Floors
	}
	if cfg.Construction.CoverageRatio > 0 {
		a.CoverageRatio = cfg.Construction.CoverageRatio
	}
	if cfg.Construction.CostPerSqFtLow > 0 {
		a.CostPerSqFtLow = cfg.Construction.CostPerSqFtLow
	}
	if cfg.Construction.CostPerSqFtHigh > 0 {
		a.CostPerSqFtHigh = cfg.Construction.CostPerSqFtHigh
	}
	return a
}
