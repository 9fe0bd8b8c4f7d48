package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

// Sweeper removes sessions idle for longer than ttl
type Sweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

// SessionSweeper runs the idle-session sweep on a cron schedule
type SessionSweeper struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	ttl     time.Duration
}

func NewSessionSweeper(sweeper Sweeper, spec string, ttl time.Duration) *SessionSweeper {
	return &SessionSweeper{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
		ttl:     ttl,
	}
}

// Start registers the sweep job and starts the scheduler
func (s *SessionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for session sweep", err, logger.Fields{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Session sweeper started", logger.Fields{
		"spec": s.spec,
		"ttl":  s.ttl.String(),
	})
	return nil
}

// RunOnce performs a single sweep
func (s *SessionSweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx, s.ttl)
	if err != nil {
		logger.Error("Session sweep failed", err)
		return
	}
	if removed > 0 {
		logger.Info("Idle sessions swept", logger.Fields{
			"removed": removed,
		})
	}
}

// Stop waits for a running sweep to finish
func (s *SessionSweeper) Stop() {
	logger.Info("Stopping session sweeper...")
	<-s.cron.Stop().Done()
	logger.Info("Session sweeper stopped")
}
