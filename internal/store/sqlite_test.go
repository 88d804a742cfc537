package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	run, err := s.CreateRun(ctx, "companies.csv")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	summary := model.RunSummary{Processed: 3, Resolved: 2, NoSite: 1, Included: 1}
	require.NoError(t, s.CompleteRun(ctx, run.ID, model.RunStatusComplete, summary))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 3, runs[0].Summary.Processed)
	assert.Equal(t, 1, runs[0].Summary.Included)
}

func TestSQLiteCompleteUnknownRun(t *testing.T) {
	s := newTestSQLite(t)
	err := s.CompleteRun(context.Background(), "no-such-run", model.RunStatusComplete, model.RunSummary{})
	require.Error(t, err)
}

func TestSQLiteDispositions(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	run, err := s.CreateRun(ctx, "test")
	require.NoError(t, err)

	require.NoError(t, s.RecordDisposition(ctx, run.ID, model.Disposition{
		Name:     "Acme HVAC Services LLC",
		Status:   model.DispositionIncluded,
		URL:      "https://acmehvac.com",
		Industry: "HVAC Services",
		Elapsed:  1200 * time.Millisecond,
	}))
	require.NoError(t, s.RecordDisposition(ctx, run.ID, model.Disposition{
		Name:     "Ghost Consulting",
		Status:   model.DispositionSkipped,
		Reason:   model.ReasonNoCandidateFound,
		LinkDead: false,
		Elapsed:  400 * time.Millisecond,
	}))

	dispositions, err := s.ListDispositions(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, dispositions, 2)

	assert.Equal(t, "Acme HVAC Services LLC", dispositions[0].Name)
	assert.Equal(t, model.DispositionIncluded, dispositions[0].Status)
	assert.Equal(t, "https://acmehvac.com", dispositions[0].URL)
	assert.Equal(t, 1200*time.Millisecond, dispositions[0].Elapsed)

	assert.Equal(t, model.DispositionSkipped, dispositions[1].Status)
	assert.Equal(t, model.ReasonNoCandidateFound, dispositions[1].Reason)
}

func TestSQLiteDispositionLinkDeadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	run, err := s.CreateRun(ctx, "test")
	require.NoError(t, err)

	require.NoError(t, s.RecordDisposition(ctx, run.ID, model.Disposition{
		Name:     "Dead Site Co",
		Status:   model.DispositionIncluded,
		URL:      "https://deadsite.example",
		LinkDead: true,
	}))

	dispositions, err := s.ListDispositions(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, dispositions, 1)
	assert.True(t, dispositions[0].LinkDead)
}
