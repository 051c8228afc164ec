package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifeos/agent-api/internal/logger"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 5 * time.Minute

// RetentionSweeper deletes sessions idle beyond the retention window on a
// cron schedule.
type RetentionSweeper struct {
	service   *Service
	logger    *logger.Logger
	retention time.Duration
	spec      string
	cron      *cron.Cron
}

func NewRetentionSweeper(service *Service, retentionDays int, spec string, log *logger.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		service:   service,
		logger:    log.WithComponent("retention-sweeper"),
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		spec:      spec,
		cron:      cron.New(),
	}
}

// Start schedules the sweep and runs the scheduler in the background.
func (r *RetentionSweeper) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.sweep); err != nil {
		return fmt.Errorf("invalid retention cron spec %q: %w", r.spec, err)
	}
	r.cron.Start()
	r.logger.Info("retention sweeper started",
		slog.String("spec", r.spec),
		slog.Duration("retention", r.retention))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *RetentionSweeper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("retention sweeper stopped")
}

func (r *RetentionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	deleted, err := r.service.DeleteStale(ctx, r.retention)
	if err != nil {
		r.logger.Error("retention sweep failed", slog.String("error", err.Error()))
		return
	}
	r.logger.Info("retention sweep completed", slog.Int64("deleted", deleted))
}
