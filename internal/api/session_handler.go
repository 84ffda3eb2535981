package api

import (
	"time"

	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/storage"
)

// SessionHandler groups all session-related HTTP handlers.
type SessionHandler struct {
	repo          storage.Repository
	eng           *engine.Engine
	catalog       *game.Catalog
	actionTimeout time.Duration
}

// NewSessionHandler creates a new SessionHandler with the given repository,
// resolution engine, content catalog and configured per-turn action timeout.
func NewSessionHandler(repo storage.Repository, eng *engine.Engine, catalog *game.Catalog, actionTimeout time.Duration) *SessionHandler {
	return &SessionHandler{repo: repo, eng: eng, catalog: catalog, actionTimeout: actionTimeout}
}
