package analysis

import (
	"fmt"
	"os"

	"precinctpulse/internal/database"
	"precinctpulse/internal/export"
	"precinctpulse/internal/models"
	"precinctpulse/internal/queue"
	"precinctpulse/internal/telegram"

	"github.com/sirupsen/logrus"
)

// Service runs the full analysis pipeline: analyze every precinct,
// persist the results, write the export artifacts, and send bargain
// alerts. Collaborators left nil are skipped, so the batch CLI can run
// without a database and the server can run without exports.
type Service struct {
	runner   *Runner
	db       *database.Database
	queue    *queue.DetailQueue
	exporter *export.Writer
	notifier *telegram.Service
	logger   *logrus.Logger
}

// NewService wires the pipeline together.
func NewService(runner *Runner, db *database.Database, q *queue.DetailQueue, exporter *export.Writer, notifier *telegram.Service, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Service{
		runner:   runner,
		db:       db,
		queue:    q,
		exporter: exporter,
		notifier: notifier,
		logger:   logger,
	}
}

// RunOnce executes one full analysis batch.
func (s *Service) RunOnce() (*RunResult, error) {
	result, err := s.runner.Run()
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := s.db.SaveSummaries(result.Summaries); err != nil {
			return nil, fmt.Errorf("failed to save summaries: %w", err)
		}
		if err := s.db.SaveScenarios(result.Scenarios); err != nil {
			return nil, fmt.Errorf("failed to save scenarios: %w", err)
		}
	}

	if s.queue != nil {
		s.enqueueDetails(result)
	}

	if s.exporter != nil {
		if err := s.writeArtifacts(result); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil && s.notifier.IsEnabled() {
		s.sendAlerts(result)
	}

	return result, nil
}

// enqueueDetails pushes one batch per precinct. A full queue drops the
// precinct's batch with a warning; the run itself is not affected.
func (s *Service) enqueueDetails(result *RunResult) {
	byPrecinct := make(map[string][]*models.PropertyDetail)
	var order []string
	for i := range result.Details {
		d := &result.Details[i]
		if _, seen := byPrecinct[d.Precinct]; !seen {
			order = append(order, d.Precinct)
		}
		byPrecinct[d.Precinct] = append(byPrecinct[d.Precinct], d)
	}

	for _, precinct := range order {
		if err := s.queue.Push(byPrecinct[precinct]); err != nil {
			s.logger.WithError(err).WithField("precinct", precinct).Warn("Failed to enqueue detail batch")
		}
	}
}

func (s *Service) writeArtifacts(result *RunResult) error {
	if err := s.exporter.WriteBargainsSummaryCSV(result.Summaries); err != nil {
		return err
	}
	if err := s.exporter.WriteBargainsDetailedCSV(result.Details); err != nil {
		return err
	}
	if err := s.exporter.WriteSizeVsPriceCSV(result.Summaries); err != nil {
		return err
	}
	if err := s.exporter.WriteConstructionCostCSV(result.Scenarios); err != nil {
		return err
	}
	if err := s.exporter.WriteBargainsSummaryJSON(result.Summaries); err != nil {
		return err
	}
	if err := s.exporter.WriteBottomUpJSON(s.runner.opts.Assumptions, result.Scenarios); err != nil {
		return err
	}
	return s.exporter.WriteWorkbooks(result.Summaries, result.Details)
}

func (s *Service) sendAlerts(result *RunResult) {
	bargains := make(map[string][]models.PropertyDetail)
	for _, d := range result.Details {
		if d.IsBargain {
			bargains[d.Precinct] = append(bargains[d.Precinct], d)
		}
	}

	for _, summary := range result.Summaries {
		flagged := bargains[summary.Precinct]
		if len(flagged) == 0 {
			continue
		}
		if err := s.notifier.NotifyBargains(summary, flagged); err != nil {
			s.logger.WithError(err).WithField("precinct", summary.Precinct).Error("Failed to send bargain alert")
		}
	}
}
