package workers

import (
	"context"
	"time"

	"skillup_backend/internal/logger"
	"skillup_backend/internal/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const DefaultSweepSpec = "@every 5m"

// AbandonmentWorker по расписанию досылает напоминания, чьи таймеры не сработали
type AbandonmentWorker struct {
	db      *gorm.DB
	service services.AbandonmentService
	spec    string
	cron    *cron.Cron
}

func NewAbandonmentWorker(db *gorm.DB, service services.AbandonmentService, spec string) *AbandonmentWorker {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &AbandonmentWorker{
		db:      db,
		service: service,
		spec:    spec,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start регистрирует задачу и запускает cron. Остановка - по отмене ctx или через Stop.
func (w *AbandonmentWorker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.spec, func() {
		w.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	logger.WorkerLog("abandonment", "start", nil, "spec", w.spec)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

func (w *AbandonmentWorker) Sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	sent, err := w.service.SweepDue(sweepCtx, w.db, time.Now())
	if err != nil {
		logger.WorkerLog("abandonment", "sweep", err)
		return
	}
	if sent > 0 {
		logger.WorkerLog("abandonment", "sweep", nil, "reminders_sent", sent)
	}
}

// Stop дожидается текущего прохода
func (w *AbandonmentWorker) Stop() {
	<-w.cron.Stop().Done()
}
