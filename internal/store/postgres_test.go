package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), "companies.csv", "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "companies.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("complete", pgxmock.AnyArg(), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteRun(context.Background(), "run-1", model.RunStatusComplete, model.RunSummary{Processed: 2})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRunNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("complete", pgxmock.AnyArg(), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", model.RunStatusComplete, model.RunSummary{})
	require.Error(t, err)
}

func TestPostgresRecordDisposition(t *testing.T) {
	s, mock := newMockStore(t)

	d := model.Disposition{
		Name:     "Acme HVAC Services LLC",
		Status:   model.DispositionIncluded,
		URL:      "https://acmehvac.com",
		Industry: "HVAC Services",
		Elapsed:  900 * time.Millisecond,
	}

	mock.ExpectExec("INSERT INTO dispositions").
		WithArgs(pgxmock.AnyArg(), "run-1", d.Name, "included", "", d.URL, d.Industry, false, int64(900), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.RecordDisposition(context.Background(), "run-1", d))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListDispositions(t *testing.T) {
	s, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"name", "status", "reason", "url", "industry", "link_dead", "elapsed_ms"}).
		AddRow("Acme HVAC Services LLC", model.DispositionIncluded, model.SkipReason(""), "https://acmehvac.com", "HVAC Services", false, int64(900)).
		AddRow("Ghost Consulting", model.DispositionSkipped, model.ReasonNoCandidateFound, "", "", false, int64(300))

	mock.ExpectQuery("SELECT name, status, reason").
		WithArgs("run-1").
		WillReturnRows(rows)

	dispositions, err := s.ListDispositions(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, dispositions, 2)
	assert.Equal(t, model.DispositionIncluded, dispositions[0].Status)
	assert.Equal(t, 900*time.Millisecond, dispositions[0].Elapsed)
	assert.Equal(t, model.ReasonNoCandidateFound, dispositions[1].Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRuns(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "source", "status", "summary", "created_at", "updated_at"}).
		AddRow("run-1", "companies.csv", model.RunStatusComplete, []byte(`{"processed":5,"included":2}`), now, now)

	mock.ExpectQuery("SELECT id, source, status").
		WithArgs(20).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 5, runs[0].Summary.Processed)
	assert.Equal(t, 2, runs[0].Summary.Included)
	require.NoError(t, mock.ExpectationsWereMet())
}
