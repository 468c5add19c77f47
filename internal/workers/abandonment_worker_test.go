package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"skillup_backend/internal/models"
	"skillup_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Track(context.Context, *gorm.DB, string, *dto.TrackAbandonmentRequest) (*models.AbandonedCart, error) {
	return nil, nil
}

func (s *countingSweeper) FireReminder(context.Context, *gorm.DB, string, int64) (bool, error) {
	return false, nil
}

func (s *countingSweeper) SweepDue(context.Context, *gorm.DB, time.Time) (int, error) {
	s.calls.Add(1)
	return 1, nil
}

func (s *countingSweeper) CancelReminder(context.Context, *gorm.DB, string) {}

func TestAbandonmentWorker_RunsOnSchedule(t *testing.T) {
	svc := &countingSweeper{}
	w := NewAbandonmentWorker(nil, svc, "@every 1s")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	w.Stop()
}

func TestAbandonmentWorker_BadSpec(t *testing.T) {
	w := NewAbandonmentWorker(nil, &countingSweeper{}, "not a cron spec")
	assert.Error(t, w.Start(context.Background()))
}

func TestAbandonmentWorker_SweepSkipsCancelledContext(t *testing.T) {
	svc := &countingSweeper{}
	w := NewAbandonmentWorker(nil, svc, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Sweep(ctx)
	assert.Equal(t, int32(0), svc.calls.Load())

	w.Sweep(context.Background())
	assert.Equal(t, int32(1), svc.calls.Load())
}
