package cron

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sweepInterval   = time.Hour
	cleanupInterval = 24 * time.Hour
)

// AuditCleaner is satisfied by application.AuditService.
type AuditCleaner interface {
	CleanupOldLogs(days int) error
}

// StartAuditCleanup expires audit entries past the retention window, once
// at start-up and then daily.
func StartAuditCleanup(ctx context.Context, log *zap.Logger, svc AuditCleaner, retentionDays int) {
	go func() {
		log.Info("starting audit cleanup task", zap.Int("retention_days", retentionDays))
		if err := svc.CleanupOldLogs(retentionDays); err != nil {
			log.Warn("failed to cleanup old audit entries", zap.Error(err))
		}

		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := svc.CleanupOldLogs(retentionDays); err != nil {
					log.Warn("failed to cleanup old audit entries", zap.Error(err))
				}
			}
		}
	}()
}

// StartTempSweep removes parked uploads that no request claimed, for example
// after a crash between parking and relocation. It runs once at start-up and
// then every hour until ctx is cancelled.
func StartTempSweep(ctx context.Context, log *zap.Logger, dir string, maxAge time.Duration) {
	go func() {
		log.Info("starting temp upload sweep", zap.String("dir", dir), zap.Duration("max_age", maxAge))
		sweep(log, dir, maxAge)

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep(log, dir, maxAge)
			}
		}
	}()
}

func sweep(log *zap.Logger, dir string, maxAge time.Duration) {
	n, err := SweepTemp(dir, maxAge, time.Now())
	if err != nil {
		log.Warn("temp upload sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("removed stale temp uploads", zap.Int("count", n))
	}
}

// SweepTemp deletes files named <uuid><ext> older than maxAge. Other files in
// dir are never touched.
func SweepTemp(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !parked(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func parked(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	_, err := uuid.Parse(base)
	return err == nil && len(base) == 36
}
