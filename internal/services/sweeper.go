package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"auction-marketplace/pkg/logger"
)

// CronSweeper periodically closes expired auctions and purges stale
// sessions. Closure goes through LifecycleService so status keeps a single
// writer, and the underlying update is idempotent, so running multiple
// instances is safe without coordination.
type CronSweeper struct {
	cron      *cron.Cron
	lifecycle *LifecycleService
	auth      *AuthService
	log       logger.Logger
}

func NewCronSweeper(lifecycle *LifecycleService, auth *AuthService, log logger.Logger) *CronSweeper {
	return &CronSweeper{
		cron:      cron.New(),
		lifecycle: lifecycle,
		auth:      auth,
		log:       log,
	}
}

func (s *CronSweeper) Start(spec string) error {
	s.log.Info("Starting expiry sweeper", "spec", spec)

	_, err := s.cron.AddFunc(spec, func() {
		s.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CronSweeper) Stop() {
	s.log.Info("Stopping expiry sweeper")
	s.cron.Stop()
}

func (s *CronSweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()

	if _, err := s.lifecycle.CloseExpired(ctx, now); err != nil {
		s.log.Error("Failed to close expired auctions", "error", err)
	}
	if _, err := s.auth.PurgeExpiredSessions(ctx, now); err != nil {
		s.log.Error("Failed to purge expired sessions", "error", err)
	}
}
