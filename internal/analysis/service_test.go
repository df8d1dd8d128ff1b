package analysis

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"precinctpulse/internal/database"
	"precinctpulse/internal/export"
	"precinctpulse/internal/models"
	"precinctpulse/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRunOnce(t *testing.T) {
	dataDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "analysis")
	seedPrecinct(t, dataDir, "precinct_10", "20250101_120000")

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	q := queue.NewDetailQueue(10, testLogger())
	var mu sync.Mutex
	var received [][]*models.PropertyDetail
	q.Subscribe(func(batch []*models.PropertyDetail) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, batch)
		return nil
	})
	q.Start()
	defer q.Close()

	runner := NewRunner(Options{DataDir: dataDir}, testLogger())
	svc := NewService(runner, db, q, export.NewWriter(outDir, testLogger()), nil, testLogger())

	result, err := svc.RunOnce()
	require.NoError(t, err)
	require.Len(t, result.Summaries, 1)

	// Summaries and scenarios land in the database.
	saved, err := db.GetSummary("precinct_10")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.InDelta(t, result.Summaries[0].MedianUnitPrice, saved.MedianUnitPrice, 1e-6)

	scenarios, err := db.GetConstructionScenarios()
	require.NoError(t, err)
	assert.Len(t, scenarios, 1)

	// The detail batch reaches the queue subscriber.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)
	mu.Lock()
	assert.Len(t, received[0], 8)
	mu.Unlock()

	// Every export artifact is written.
	for _, name := range []string{
		"bargains_summary.csv",
		"bargains_detailed.csv",
		"size_vs_price_summary.csv",
		"construction_cost_summary.csv",
		"bargains_summary.json",
		"bottom_up_calculator.json",
		"precinct_10.xlsx",
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestServiceRunOnce_NilCollaborators(t *testing.T) {
	dataDir := t.TempDir()
	seedPrecinct(t, dataDir, "precinct_10", "20250101_120000")

	runner := NewRunner(Options{DataDir: dataDir}, testLogger())
	svc := NewService(runner, nil, nil, nil, nil, testLogger())

	result, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Len(t, result.Summaries, 1)
	assert.Len(t, result.Details, 8)
}
