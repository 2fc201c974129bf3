package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunJanitor purges expired entries every interval until ctx is done.
func RunJanitor(ctx context.Context, repo Repo, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Err(err).Msg("session janitor failed")
				continue
			}
			if removed > 0 {
				log.Debug().Int64("removed", removed).Msg("expired sessions purged")
			}
		}
	}
}
