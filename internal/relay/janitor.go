package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/hackz-app/relay-service/internal/metrics"
)

const DefaultSweepInterval = time.Minute

// Janitor runs the store's TTL sweep on a fixed interval. The store itself
// only expires rooms lazily, so someone has to push.
type Janitor struct {
	store    *Store
	interval time.Duration
}

func NewJanitor(store *Store, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Janitor{store: store, interval: interval}
}

// Run blocks until ctx is done, sweeping once per interval.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := j.store.Cleanup(); removed > 0 {
				metrics.RoomsSwept.Add(float64(removed))
				metrics.RoomsAlive.Set(float64(j.store.Len()))
				slog.Info("room sweep", "removed", removed, "alive", j.store.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}
