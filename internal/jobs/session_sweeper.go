package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IdleSweeper removes idle conversation sessions
type IdleSweeper interface {
	SweepIdle(ctx context.Context) (int, error)
}

// SessionSweeper periodically evicts idle sessions
type SessionSweeper struct {
	sessions IdleSweeper
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewSessionSweeper creates a sweeper running every interval
func NewSessionSweeper(sessions IdleSweeper, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger.Named("SessionSweeper"),
		done:     make(chan struct{}),
	}
}

// Start runs the sweeper in the background until ctx is cancelled
func (s *SessionSweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Session sweeper disabled")
		close(s.done)
		return
	}

	s.logger.Info("Starting session sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Done is closed once the sweeper has stopped
func (s *SessionSweeper) Done() <-chan struct{} {
	return s.done
}

func (s *SessionSweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping session sweeper")
			return
		case <-ticker.C:
			if _, err := s.sessions.SweepIdle(ctx); err != nil {
				s.logger.Warn("Session sweep failed", zap.Error(err))
			}
		}
	}
}
