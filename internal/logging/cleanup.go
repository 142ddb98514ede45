package logging

import (
	"context"
	"log/slog"
	"time"
)

const logRetention = 30 * 24 * time.Hour

type SessionPurger interface {
	PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type LogPurger interface {
	PurgeSystemLogs(ctx context.Context, cutoff time.Time) (int64, error)
}

// StartCleanup runs RunCleanup once a day until done is closed. logs may be
// nil when system logs are not persisted.
func StartCleanup(sessions SessionPurger, logs LogPurger, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				RunCleanup(context.Background(), time.Now(), sessions, logs)
			case <-done:
				return
			}
		}
	}()
}

// RunCleanup drops expired or revoked sessions and system logs past retention.
func RunCleanup(ctx context.Context, now time.Time, sessions SessionPurger, logs LogPurger) {
	if sessions != nil {
		n, err := sessions.PurgeSessions(ctx, now)
		if err != nil {
			slog.Error("session cleanup failed", "action", "cleanup", "error", err)
		} else if n > 0 {
			slog.Info("session cleanup completed", "deleted", n)
		}
	}

	if logs != nil {
		n, err := logs.PurgeSystemLogs(ctx, now.Add(-logRetention))
		if err != nil {
			slog.Error("log cleanup failed", "action", "cleanup", "error", err)
		} else if n > 0 {
			slog.Info("log cleanup completed", "deleted", n)
		}
	}
}
