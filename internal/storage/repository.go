package storage

import (
	"time"

	"github.com/pdamaso/cityfall/internal/game"
)

type Repository interface {
	CreateSession(s *game.Session) error
	GetSessionByID(id uint) (*game.Session, error)
	FindSessionByUUID(uuid string) (*game.Session, error)
	FindSessionByJoinCode(code string) (*game.Session, error)
	// GetOpenSessions returns recent joinable sessions for the lobby list.
	GetOpenSessions() ([]game.Session, error)
	UpdateSession(s *game.Session) error

	UpsertUser(email, uuid, name string) error
	GetStatsByEmail(email string) (*game.User, error)
	SaveUser(u *game.User) error
	// Leaderboard
	GetTopPlayers(limit int) ([]game.User, error)
	// UpdateStatsOnSessionEnd records the finished session against the
	// player's profile exactly once (the session's StatsCounted flag
	// guards against double counting).
	UpdateStatsOnSessionEnd(s *game.Session, resigned bool) error

	// FindTimedOutSessions returns in-progress sessions whose action
	// deadline is at or before the provided time. The caller decides how
	// to resolve them (for example, force-ending the idle turn).
	FindTimedOutSessions(now time.Time) ([]game.Session, error)
}
