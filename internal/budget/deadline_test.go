package budget

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithDeadlineHardAborts(t *testing.T) {
	start := time.Now()
	_, err := RunWithDeadline(context.Background(), ModeHard, 50*time.Millisecond, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(500 * time.Millisecond):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrDeadlineExceeded))
	assert.Less(t, elapsed, 300*time.Millisecond, "hard mode must return at the deadline, not after the stage")
}

func TestRunWithDeadlineHardCompletes(t *testing.T) {
	got, err := RunWithDeadline(context.Background(), ModeHard, time.Second, func(ctx context.Context) (string, error) {
		return "https://acmehvac.com", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "https://acmehvac.com", got)
}

func TestRunWithDeadlineHardStageError(t *testing.T) {
	stageErr := eris.New("provider down")
	_, err := RunWithDeadline(context.Background(), ModeHard, time.Second, func(ctx context.Context) (string, error) {
		return "", stageErr
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, stageErr))
	assert.False(t, eris.Is(err, ErrDeadlineExceeded))
}

func TestRunWithDeadlineSoftNeverAborts(t *testing.T) {
	got, err := RunWithDeadline(context.Background(), ModeSoft, 10*time.Millisecond, func(ctx context.Context) (string, error) {
		time.Sleep(50 * time.Millisecond)
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline, "soft mode must not impose a deadline")
		return "late but complete", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "late but complete", got)
}

func TestRunWithDeadlineParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := RunWithDeadline(ctx, ModeHard, time.Second, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		time.Sleep(100 * time.Millisecond)
		return "", ctx.Err()
	})
	require.Error(t, err)
	assert.False(t, eris.Is(err, ErrDeadlineExceeded), "parent cancellation is not a budget overrun")
	assert.True(t, eris.Is(err, context.Canceled))
}
