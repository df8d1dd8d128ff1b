package scheduler

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"precinctpulse/internal/analysis"

	"github.com/sirupsen/logrus"
)

// AnalysisService is the part of the pipeline the scheduler drives.
type AnalysisService interface {
	RunOnce() (*analysis.RunResult, error)
}

// Scheduler manages periodic re-analysis: one run at startup, then one
// every interval. Runs never overlap.
type Scheduler struct {
	service      AnalysisService
	logger       *logrus.Logger
	interval     time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
	jobMutex     sync.Mutex  // Ensures sequential run execution
	isStartupRun atomic.Bool // Tracks whether we're in startup run
}

// NewScheduler creates a new scheduler
func NewScheduler(service AnalysisService, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}
	if interval <= 0 {
		interval = time.Hour
	}

	s := &Scheduler{
		service:  service,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
	s.isStartupRun.Store(true)
	return s
}

// Start begins the scheduled runs
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// runScheduler handles all scheduled runs
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Run the startup analysis in a separate goroutine so the ticker
	// starts on time.
	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup analysis")
		s.runAnalysis()
		s.isStartupRun.Store(false)
		s.logger.Info("Startup analysis completed")
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.executeScheduledRun()
		}
	}
}

// executeScheduledRun runs the analysis unless the startup run is
// still in progress.
func (s *Scheduler) executeScheduledRun() {
	if s.isStartupRun.Load() {
		s.logger.Debug("Skipping scheduled run while startup is in progress")
		return
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.logger.Info("Starting scheduled analysis run")
	s.runAnalysis()
	s.logger.Info("Completed scheduled analysis run")
}

func (s *Scheduler) runAnalysis() {
	start := time.Now()
	result, err := s.service.RunOnce()
	if err != nil {
		s.logger.WithError(err).Error("Analysis run failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"precincts": len(result.Summaries),
		"skipped":   len(result.Skipped),
		"duration":  time.Since(start).String(),
	}).Info("Analysis run finished")
}
