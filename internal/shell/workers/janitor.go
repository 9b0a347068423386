// Package workers holds the background goroutines of the service.
package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/morales/invitations/internal/shell/store"
)

// SessionJanitorConfig configures the expired-session sweeper.
type SessionJanitorConfig struct {
	Interval time.Duration
}

// DefaultSessionJanitorConfig returns default configuration.
func DefaultSessionJanitorConfig() SessionJanitorConfig {
	return SessionJanitorConfig{
		Interval: 15 * time.Minute,
	}
}

// SessionJanitor periodically deletes expired admin sessions. The login
// handler also sweeps opportunistically; this worker covers deployments
// where nobody logs in for long stretches.
type SessionJanitor struct {
	store  store.Store
	config SessionJanitorConfig
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionJanitor creates a new session sweeper.
func NewSessionJanitor(s store.Store, config SessionJanitorConfig, logger *slog.Logger) *SessionJanitor {
	if config.Interval == 0 {
		config.Interval = 15 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionJanitor{
		store:  s,
		config: config,
		logger: logger.With("component", "session_janitor"),
	}
}

// Start begins the janitor background goroutine.
func (j *SessionJanitor) Start() {
	j.ctx, j.cancel = context.WithCancel(context.Background())
	j.wg.Add(1)
	go j.run()
	j.logger.Info("session janitor started", "interval", j.config.Interval)
}

// Stop gracefully stops the janitor.
func (j *SessionJanitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
	j.logger.Info("session janitor stopped")
}

func (j *SessionJanitor) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-ticker.C:
			j.runCycle()
		}
	}
}

func (j *SessionJanitor) runCycle() {
	ctx, cancel := context.WithTimeout(j.ctx, 30*time.Second)
	defer cancel()

	if err := j.store.DeleteExpiredSessions(ctx, time.Now()); err != nil {
		j.logger.Error("failed to purge expired sessions", "error", err)
	}
}
