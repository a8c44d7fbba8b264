package main

import (
	"context"
	"log"
	"time"

	"rentalsBack/internal/session"
)

const sessionCleanerInterval = 10 * time.Minute

// startSessionCleaner periodically drops expired in-memory sessions. The redis
// backend expires keys itself and does not need it.
func startSessionCleaner(ctx context.Context, store *session.MemoryStore, infoLog *log.Logger) {
	if store == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(sessionCleanerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := store.DeleteExpired(); removed > 0 && infoLog != nil {
					infoLog.Printf("session cleaner: removed %d expired sessions", removed)
				}
			}
		}
	}()
}
