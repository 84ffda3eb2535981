package service

import (
	"errors"
	"sync"

	"github.com/pdamaso/cityfall/internal/game"
)

// SessionRepo is the minimal repository interface the service layer needs.
// storage.Repository satisfies it; tests use hand-rolled mocks.
type SessionRepo interface {
	FindSessionByUUID(uuid string) (*game.Session, error)
	UpdateSession(s *game.Session) error
	UpdateStatsOnSessionEnd(s *game.Session, resigned bool) error
}

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotInProgress = errors.New("session is not in progress")
	ErrSessionFinished      = errors.New("session is finished")
	ErrPlayerCaptured       = errors.New("player is captured and cannot act")
)

// sessionLocks holds one mutex per session UUID. World state inside a
// session has no finer-grained locking, so the whole action/turn pipeline
// runs under this lock (one in-flight operation per session).
var sessionLocks sync.Map

func lockSession(uuid string) func() {
	m, _ := sessionLocks.LoadOrStore(uuid, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// withSession loads the session, runs fn under the per-session lock and
// persists the aggregate. When fn flips the session into a finished state
// the player's profile stats are updated exactly once.
func withSession(repo SessionRepo, uuid string, fn func(*game.Session) error) (*game.Session, error) {
	unlock := lockSession(uuid)
	defer unlock()

	s, err := repo.FindSessionByUUID(uuid)
	if err != nil || s == nil {
		return nil, ErrSessionNotFound
	}
	wasFinished := s.Status == game.StatusFinished

	if err := fn(s); err != nil {
		return s, err
	}

	if !wasFinished && s.Status == game.StatusFinished {
		_ = repo.UpdateStatsOnSessionEnd(s, false)
	}
	if err := repo.UpdateSession(s); err != nil {
		return s, err
	}
	return s, nil
}

// GetSession returns the full session aggregate for display.
func GetSession(repo SessionRepo, uuid string) (*game.Session, error) {
	s, err := repo.FindSessionByUUID(uuid)
	if err != nil || s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
