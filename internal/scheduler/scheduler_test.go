package scheduler

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"precinctpulse/internal/analysis"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	runs int64
	err  error
}

func (f *fakeService) RunOnce() (*analysis.RunResult, error) {
	atomic.AddInt64(&f.runs, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &analysis.RunResult{}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScheduler_StartupRun(t *testing.T) {
	svc := &fakeService{}
	s := NewScheduler(svc, time.Hour, testLogger())

	s.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&svc.runs) == 1
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_TickerRuns(t *testing.T) {
	svc := &fakeService{}
	s := NewScheduler(svc, 50*time.Millisecond, testLogger())

	s.Start()
	// Startup run plus at least one tick.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&svc.runs) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_RunFailureDoesNotStopScheduler(t *testing.T) {
	svc := &fakeService{err: errors.New("data directory missing")}
	s := NewScheduler(svc, 50*time.Millisecond, testLogger())

	s.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&svc.runs) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_DefaultInterval(t *testing.T) {
	s := NewScheduler(&fakeService{}, 0, testLogger())
	assert.Equal(t, time.Hour, s.interval)
}
