package main

import (
	"context"
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pvp"
)

// runSweepers periodically expires idle queue entries and forfeits matches
// whose round deadline has passed. It returns when ctx is cancelled.
func runSweepers(ctx context.Context, pvpSvc *pvp.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			pvpSvc.SweepMatches(now)
			pvpSvc.SweepQueue(now)
		}
	}
}
