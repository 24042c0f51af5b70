package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"roadtrip/internal/config"
)

// SessionSweeper deletes expired live sessions on a fixed interval.
type SessionSweeper struct {
	sessions SessionServiceInterface
	interval time.Duration
	log      *zap.Logger
}

func NewSessionSweeper(sessions SessionServiceInterface, cfg *config.Config, log *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: cfg.SessionSweepInterval,
		log:      log.Named("sweeper"),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *SessionSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.sessions.CleanupExpiredSessions(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn("sweep expired sessions", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
