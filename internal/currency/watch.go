package currency

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultWatchInterval is how often Watch polls for settings written by
// other processes sharing the store.
const DefaultWatchInterval = time.Second

// Watch polls the store and converges the cached settings on records
// written elsewhere. It runs until the context is cancelled.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Load(); err != nil {
				log.Warn().Err(err).Msg("Failed to refresh currency settings")
			}
		}
	}
}
