package core

// scheduler.go runs background maintenance for the table history log.
//
// The pruner drops entries older than the retention period. It runs once
// on start and then every interval until its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig holds configuration for the audit pruner.
type PruneConfig struct {
	Retention time.Duration // Age after which entries are dropped
	Interval  time.Duration // How often to run (default: 10m)
}

// StartAuditPruner blocks, pruning the audit log until ctx is cancelled.
// A zero retention returns immediately.
func (s *Service) StartAuditPruner(ctx context.Context, cfg PruneConfig) {
	if cfg.Retention <= 0 {
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}

	slog.Info("audit pruner started", "retention", cfg.Retention, "interval", cfg.Interval)

	s.runPruneJob(cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit pruner stopped")
			return
		case <-ticker.C:
			s.runPruneJob(cfg.Retention)
		}
	}
}

// runPruneJob performs one prune cycle.
func (s *Service) runPruneJob(retention time.Duration) {
	start := time.Now()
	pruned := s.audit.Prune(s.audit.now().Add(-retention))
	if pruned > 0 {
		slog.Info("pruned audit entries",
			"entries_pruned", pruned,
			"entries_kept", s.audit.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
