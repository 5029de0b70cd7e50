package service

import (
	"context"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/repository"

	"go.uber.org/zap"
)

// Scheduler periodically downgrades users whose premium subscription has
// expired, so the entitlement gate never has to reason about stale status.
type Scheduler struct {
	log   *zap.Logger
	users *repository.UserRepo
}

func NewScheduler(log *zap.Logger, users *repository.UserRepo) *Scheduler {
	return &Scheduler{
		log:   log,
		users: users,
	}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting subscription expiry scheduler...")
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Run once at startup so a long-stopped server catches up immediately.
		s.runExpirySweep()
		for {
			<-ticker.C
			s.runExpirySweep()
		}
	}()
}

func (s *Scheduler) runExpirySweep() {
	now := time.Now().UTC()
	s.log.Debug("Running subscription expiry sweep", zap.Time("utc_time", now))

	downgraded, err := s.users.DowngradeExpired(context.Background(), now)
	if err != nil {
		s.log.Error("Failed to downgrade expired subscriptions", zap.Error(err))
		return
	}
	if downgraded > 0 {
		s.log.Info("Downgraded expired subscriptions", zap.Int64("count", downgraded))
	}
}
