package cron

import (
	"context"
	"log"
	"strings"
	"time"

	"taxdesk-backend/internal/history"
	"taxdesk-backend/internal/storage"
)

const (
	pruneInterval = 24 * time.Hour
	reportsPrefix = "reports/"
)

// StartPruner launches a background goroutine that runs once immediately
// and then once per day, deleting saved calculations and stored reports
// older than retention. It stops when ctx is cancelled. A non-positive
// retention disables it.
func StartPruner(ctx context.Context, store history.Store, files storage.Store, retention time.Duration) {
	if retention <= 0 {
		log.Println("[cron] retention pruner disabled")
		return
	}

	go func() {
		runCycle(ctx, store, files, retention, time.Now())

		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				runCycle(ctx, store, files, retention, now)
			}
		}
	}()

	log.Printf("[cron] retention pruner started, keeps %s and runs every 24 h", retention)
}

// runCycle deletes history records and reports created before now-retention.
func runCycle(ctx context.Context, store history.Store, files storage.Store, retention time.Duration, now time.Time) (records, reports int64) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := now.Add(-retention).UTC()

	n, err := store.DeleteBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[cron] error pruning calculations: %v", err)
	} else if n > 0 {
		log.Printf("[cron] pruned %d calculations older than %s", n, cutoff.Format(time.DateOnly))
	}

	m := pruneReports(ctx, files, cutoff)
	if m > 0 {
		log.Printf("[cron] deleted %d reports older than %s", m, cutoff.Format(time.DateOnly))
	}
	return n, m
}

// pruneReports deletes reports/<YYYY-MM-DD>/... files dated before cutoff's
// day. Paths without a date segment are left alone.
func pruneReports(ctx context.Context, files storage.Store, cutoff time.Time) int64 {
	paths, err := files.List(ctx, reportsPrefix)
	if err != nil {
		log.Printf("[cron] error listing reports: %v", err)
		return 0
	}

	var n int64
	for _, path := range paths {
		day, _, ok := strings.Cut(strings.TrimPrefix(path, reportsPrefix), "/")
		if !ok {
			continue
		}
		created, err := time.Parse(time.DateOnly, day)
		if err != nil || !created.Before(cutoff.Truncate(24*time.Hour)) {
			continue
		}
		if err := files.Delete(ctx, path); err != nil {
			log.Printf("[cron] error deleting report %s: %v", path, err)
			continue
		}
		n++
	}
	return n
}
