package service

import (
	"time"

	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// HandleTimedOutSession resolves a session whose acting human idled past the
// action deadline: any pending dice roll is resumed conservatively (no
// renown spent) and the turn is ended on the player's behalf.
func HandleTimedOutSession(repo SessionRepo, eng *engine.Engine, s *game.Session, actionTimeout time.Duration) error {
	if s.Status != game.StatusInProgress {
		return nil
	}
	if s.ActionDeadline.IsZero() || s.ActionDeadline.After(time.Now()) {
		return nil
	}

	logging.Info("action deadline passed; ending turn for idle player",
		logging.Fields{"session_uuid": s.SessionUUID, "turn": s.Turn})

	if s.PendingDice != "" {
		// Resume with a clean roll so the idle player is not additionally
		// punished by losing gear to a timeout.
		_, err := withSession(repo, s.SessionUUID, func(loaded *game.Session) error {
			if loaded.PendingDice == "" {
				return nil
			}
			eng.ResumeGearAction(loaded, 0, false)
			return nil
		})
		if err != nil {
			logging.Error("failed to resolve pending roll on timeout", err,
				logging.Fields{"session_uuid": s.SessionUUID})
			return err
		}
	}

	_, err := EndTurn(repo, eng, s.SessionUUID, actionTimeout)
	return err
}
