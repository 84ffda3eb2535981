package service

import (
	"time"

	"github.com/pdamaso/cityfall/internal/dedupe"
	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/game"
)

// EndTurn advances the session by one turn (or more, while AI/autorun phases
// keep control). Concurrent end-turn requests for the same session are
// coalesced through the shared singleflight group, so a double-click or a
// collision with the timeout scanner runs the advancement once.
func EndTurn(repo SessionRepo, eng *engine.Engine, uuid string, actionTimeout time.Duration) (*game.Session, error) {
	v, err, _ := dedupe.SessionGroup.Do("end_turn:"+uuid, func() (interface{}, error) {
		return withSession(repo, uuid, func(s *game.Session) error {
			if err := eng.AdvanceTurn(s); err != nil {
				return err
			}
			if s.Status == game.StatusInProgress {
				s.ActionDeadline = time.Now().Add(actionTimeout)
			} else {
				s.ActionDeadline = time.Time{}
			}
			return nil
		})
	})
	s, _ := v.(*game.Session)
	return s, err
}

// SetAutoRun schedules n turns to run without presentation involvement the
// next time the turn advances.
func SetAutoRun(repo SessionRepo, eng *engine.Engine, uuid string, n int) (*game.Session, error) {
	return withSession(repo, uuid, func(s *game.Session) error {
		if s.Status != game.StatusInProgress {
			return ErrSessionFinished
		}
		eng.SetAutoRun(s, n)
		return nil
	})
}
