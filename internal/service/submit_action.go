package service

import (
	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/game"
)

// checkActing rejects operations on sessions that are not accepting player
// input. A captured player may still end the turn, but cannot act.
func checkActing(s *game.Session) error {
	if s.Status != game.StatusInProgress {
		return ErrSessionFinished
	}
	if s.PlayerStatus != game.ActorActive {
		return ErrPlayerCaptured
	}
	return nil
}

// SubmitNodeAction resolves a node action for the player (or one of their
// actors) and consumes an action point when the resolution says so.
func SubmitNodeAction(repo SessionRepo, eng *engine.Engine, uuid string, actorID, nodeID int) (*engine.OutcomeReport, error) {
	var report *engine.OutcomeReport
	_, err := withSession(repo, uuid, func(s *game.Session) error {
		if err := checkActing(s); err != nil {
			return err
		}
		report = eng.ResolveNodeAction(s, actorID, nodeID)
		if report.IsAction {
			eng.UseAction(s, "node_action")
		}
		return nil
	})
	return report, err
}

// SubmitGearAction resolves a node-gear action. When the compromise roll is
// left to the player the returned DiceRequest is non-nil and the action
// point is charged on resume instead.
func SubmitGearAction(repo SessionRepo, eng *engine.Engine, uuid string, nodeID, gearID, actorID int) (*engine.OutcomeReport, *engine.DiceRequest, error) {
	var (
		report *engine.OutcomeReport
		dice   *engine.DiceRequest
	)
	_, err := withSession(repo, uuid, func(s *game.Session) error {
		if err := checkActing(s); err != nil {
			return err
		}
		report, dice = eng.ResolveGearAction(s, nodeID, gearID, actorID)
		if report != nil && report.IsAction {
			eng.UseAction(s, "gear_action")
		}
		return nil
	})
	return report, dice, err
}

// SubmitDiceResult resumes the gear action paused on an external dice roll.
func SubmitDiceResult(repo SessionRepo, eng *engine.Engine, uuid string, roll int, spendRenown bool) (*engine.OutcomeReport, error) {
	var report *engine.OutcomeReport
	_, err := withSession(repo, uuid, func(s *game.Session) error {
		if s.Status != game.StatusInProgress {
			return ErrSessionFinished
		}
		report = eng.ResumeGearAction(s, roll, spendRenown)
		if report.IsAction {
			eng.UseAction(s, "gear_action")
		}
		return nil
	})
	return report, err
}

// SubmitTargetAction resolves a player attempt on the target at a node.
func SubmitTargetAction(repo SessionRepo, eng *engine.Engine, uuid string, nodeID int) (*engine.OutcomeReport, error) {
	var report *engine.OutcomeReport
	_, err := withSession(repo, uuid, func(s *game.Session) error {
		if err := checkActing(s); err != nil {
			return err
		}
		report = eng.ResolveTargetAction(s, nodeID)
		if report.IsAction {
			eng.UseAction(s, "target_action")
		}
		return nil
	})
	return report, err
}

// SubmitTeamAction inserts a team at a node, or returns the picker choices
// when the request names no archetype.
func SubmitTeamAction(repo SessionRepo, eng *engine.Engine, uuid string, details engine.TeamDetails) (*engine.OutcomeReport, *engine.TeamPickerRequest, error) {
	var (
		report *engine.OutcomeReport
		picker *engine.TeamPickerRequest
	)
	_, err := withSession(repo, uuid, func(s *game.Session) error {
		if err := checkActing(s); err != nil {
			return err
		}
		report, picker = eng.ResolveTeamAction(s, details)
		if report != nil && report.IsAction {
			eng.UseAction(s, "team_action")
		}
		return nil
	})
	return report, picker, err
}
