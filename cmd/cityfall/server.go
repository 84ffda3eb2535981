package main

import (
	"time"

	"github.com/pdamaso/cityfall/internal/constants"
	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/logging"
	"github.com/pdamaso/cityfall/internal/service"
	"github.com/pdamaso/cityfall/internal/storage"
)

// startTimeoutScanner periodically force-ends turns whose action deadline
// has passed. Handling is delegated to service.HandleTimedOutSession, which
// resolves any parked dice roll first so idle players are not additionally
// punished, then advances the turn.
func startTimeoutScanner(repo storage.Repository, eng *engine.Engine, actionTimeout time.Duration) {
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			sessions, err := repo.FindTimedOutSessions(now)
			if err != nil {
				logging.Error("timeout scanner failed", err, nil)
				continue
			}
			// process sequentially (keeps the DB safe under SQLite)
			for i := range sessions {
				s := &sessions[i]
				if err := service.HandleTimedOutSession(repo, eng, s, actionTimeout); err != nil {
					logging.Error("failed to end idle turn", err, logging.Fields{constants.LogFieldSessionUUID: s.SessionUUID})
				}
			}
		}
	}()
}
