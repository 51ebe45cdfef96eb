package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/service"
)

// SLAWorker runs the SLA sweep on a cron schedule.
type SLAWorker struct {
	cron   *cron.Cron
	sla    *service.SLAService
	logger *zap.Logger
}

// NewSLAWorker schedules the sweep. spec is a standard 5-field cron
// expression.
func NewSLAWorker(spec string, slaService *service.SLAService, logger *zap.Logger) (*SLAWorker, error) {
	w := &SLAWorker{
		cron:   cron.New(),
		sla:    slaService,
		logger: logger,
	}
	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, err
	}
	return w, nil
}

// Start begins schedule execution in its own goroutine.
func (w *SLAWorker) Start() {
	w.cron.Start()
	w.logger.Info("sla worker started")
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *SLAWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("sla worker stopped")
}

func (w *SLAWorker) run() {
	result, err := w.sla.RunSweep(context.Background())
	if err != nil {
		w.logger.Error("sla sweep failed", zap.Error(err))
		return
	}
	w.logger.Info("sla sweep finished", zap.Int("checked", result.Checked))
}
