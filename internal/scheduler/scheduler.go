package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Loader - то, что нужно периодически обновлять (справочник монет)
type Loader interface {
	Load(ctx context.Context) error
}

type Scheduler struct {
	directory Loader
	interval  time.Duration
	logger    *slog.Logger
}

// NewScheduler — конструктор планировщика фонового обновления справочника
func NewScheduler(directory Loader, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		directory: directory,
		interval:  interval,
		logger:    logger,
	}
}

// Start — запускает периодическое выполнение задачи до остановки контекста
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started")
	s.logger.Debug("scheduler interval configured", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// первый запуск сразу
	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// runOnce — одна итерация: обновить справочник, если его TTL истёк
func (s *Scheduler) runOnce(ctx context.Context) {
	s.logger.Debug("tick: refreshing coin directory")
	if err := s.directory.Load(ctx); err != nil {
		s.logger.Error("tick: directory refresh failed", slog.Any("err", err))
	} else {
		s.logger.Debug("tick: directory refresh completed")
	}
}
