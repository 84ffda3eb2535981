package engine

import (
	"errors"
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

var (
	// ErrInteractionPending is returned when the turn cannot advance
	// because a dice-roll continuation is still parked on the session.
	ErrInteractionPending = errors.New("an interaction is pending; resolve it before ending the turn")
	// ErrSessionFinished is returned when a terminal win state is already
	// set; the turn loop stops advancing.
	ErrSessionFinished = errors.New("session is finished")
)

// autoTurnCap bounds the internal both-sides-AI loop so a session that
// never reaches a win state cannot spin forever.
const autoTurnCap = 999

// AdvanceTurn drives the per-turn sequence. The six phases run strictly in
// order and none may be skipped or reordered:
//
//	EndTurnAI -> EndTurnEarly -> EndTurnLate ->
//	StartTurnEarly -> StartTurnLate -> StartTurnFinal
//
// When StartTurnFinal decides no human interaction is needed (both sides AI,
// or autorun turns remain) the loop continues internally without yielding
// control, until a human phase comes up or a win state is set.
func (en *Engine) AdvanceTurn(s *game.Session) error {
	if s.PendingDice != "" {
		return ErrInteractionPending
	}
	if s.WinSide != game.SideNone || s.Status == game.StatusFinished {
		return ErrSessionFinished
	}

	for i := 0; ; i++ {
		en.endTurnAI(s)
		en.endTurnEarly(s)
		en.endTurnLate(s)
		en.startTurnEarly(s)
		en.startTurnLate(s)
		needsHuman := en.startTurnFinal(s)

		if s.WinSide != game.SideNone {
			return nil
		}
		if needsHuman {
			return nil
		}
		if i >= autoTurnCap {
			logging.Error("auto-run turn cap reached", nil, logging.Fields{"session_uuid": s.SessionUUID, "turn": s.Turn})
			return nil
		}
	}
}

// SetAutoRun schedules n turns to execute synchronously in a tight loop
// without presentation involvement.
func (en *Engine) SetAutoRun(s *game.Session, n int) {
	if n < 0 {
		n = 0
	}
	s.AutoRunTurns = n
}

// UseAction consumes one action point. A Wounded player collapses the
// remaining budget to exactly the count already used, ending the turn's
// actions. Exceeding the total is a logged defect, not a blocking error.
func (en *Engine) UseAction(s *game.Session, reason string) {
	s.ActionsUsed++
	total := s.ActionsTotal()
	if s.PlayerHasCondition(game.ConditionWounded) && s.ActionsUsed < total {
		s.ActionAdjusts = append(s.ActionAdjusts, game.ActionAdjust{
			Amount:         s.ActionsUsed - total,
			TurnsRemaining: 1,
			Reason:         "wounded",
		})
	}
	if s.ActionsUsed > s.ActionsTotal() {
		logging.Error("action budget exceeded", nil,
			logging.Fields{"used": s.ActionsUsed, "total": s.ActionsTotal(), "reason": reason})
	}
}

// endTurnAI runs end-of-turn processing for whichever sides are
// AI-controlled (0, 1 or 2), then ongoing-effect processing regardless of
// AI involvement.
func (en *Engine) endTurnAI(s *game.Session) {
	if s.AuthorityAI {
		en.runSideAI(s, game.SideAuthority)
	}
	if s.ResistanceAI {
		en.runSideAI(s, game.SideResistance)
	}
	en.processOngoing(s)
}

// runSideAI is deliberately simple: each AI side picks one of its active
// actors at random and resolves that actor's node action.
func (en *Engine) runSideAI(s *game.Session, side game.Side) {
	s.ActingSide = side
	var candidates []int
	for i := range s.Actors {
		a := &s.Actors[i]
		if a.Side == side && a.Status == game.ActorActive && a.NodeID != game.NoNode {
			candidates = append(candidates, a.ActorID)
		}
	}
	if len(candidates) == 0 {
		return
	}
	pick := s.ActorByID(candidates[en.rng.Intn(len(candidates))])
	report := en.ResolveNodeAction(s, pick.ActorID, pick.NodeID)
	if report.IsAction {
		en.UseAction(s, "ai:"+string(side))
	}
}

// endTurnEarly ticks capture timers and team lifetimes, then runs the
// once-per-turn loyalty and approval countdown checks (the latches make
// these no-ops if a mid-turn mutation already checked them).
func (en *Engine) endTurnEarly(s *game.Session) {
	en.tickCaptureTimers(s)
	en.tickTeams(s)
	en.checkCityLoyalty(s)
	for i := range s.Factions {
		en.checkFactionLimit(s, &s.Factions[i])
	}
}

// endTurnLate decays temporary budget adjustments, resets the per-turn
// action counter and re-opens the countdown latches for the next turn.
func (en *Engine) endTurnLate(s *game.Session) {
	kept := s.ActionAdjusts[:0]
	for i := range s.ActionAdjusts {
		adj := s.ActionAdjusts[i]
		adj.TurnsRemaining--
		if adj.TurnsRemaining <= 0 {
			continue
		}
		kept = append(kept, adj)
	}
	s.ActionAdjusts = kept
	s.ActionsUsed = 0

	s.LoyaltyChecked = false
	for i := range s.Factions {
		s.Factions[i].Checked = false
	}
}

// startTurnEarly increments the monotonic turn counter and runs the
// start-of-turn capture check for the player.
func (en *Engine) startTurnEarly(s *game.Session) {
	s.Turn++
	s.AddMessage(game.MessageTurn, game.SideNone, fmt.Sprintf("Turn %d begins", s.Turn))
	en.CheckStartTurnCapture(s)
}

// startTurnLate reconciles derived states: dormant targets scheduled for
// this turn go live, completed targets whose aftermath has played out are
// contained, and a security alert with no Erasure teams left on the map
// auto-cancels back to normal.
func (en *Engine) startTurnLate(s *game.Session) {
	en.reconcileTargets(s)
	en.reconcileSecurityAlert(s)
}

func (en *Engine) reconcileTargets(s *game.Session) {
	for i := range s.Targets {
		tg := &s.Targets[i]
		switch tg.Status {
		case game.TargetDormant:
			if s.Turn < tg.ActivationTurn {
				continue
			}
			tg.Status = game.TargetLive
			s.AddMessage(game.MessageTarget, game.SideNone,
				fmt.Sprintf("Target now live: %s (district %d)", en.targetDisplayName(tg), tg.NodeID))
		case game.TargetCompleted:
			// Contained once the lingering ongoing link has expired.
			if tg.OngoingID != 0 {
				continue
			}
			tg.Status = game.TargetContained
			s.AddMessage(game.MessageTarget, game.SideNone,
				fmt.Sprintf("Target contained: %s", en.targetDisplayName(tg)))
		}
	}
}

func (en *Engine) targetDisplayName(tg *game.Target) string {
	if p := en.catalog.TargetProfileNamed(tg.Profile); p != nil {
		return p.Name
	}
	return tg.Profile
}

func (en *Engine) reconcileSecurityAlert(s *game.Session) {
	if s.SecurityState != game.SecurityAlert {
		return
	}
	for i := range s.Teams {
		if s.Teams[i].Arc == game.ArcErasure {
			return
		}
	}
	s.SecurityState = game.SecurityNormal
	s.AddMessage(game.MessageTurn, game.SideAuthority, "Security alert lifted: no Erasure teams remain deployed")
}

// startTurnFinal decides whether the upcoming phase needs human interaction.
// It returns false (loop continues) when both sides are AI-controlled or
// autorun turns remain. ActingSide is settled here: the player's side when
// the turn opens for input, none while the loop keeps running internally.
func (en *Engine) startTurnFinal(s *game.Session) bool {
	if s.AutoRunTurns > 0 {
		s.AutoRunTurns--
		s.ActingSide = game.SideNone
		return false
	}
	if s.AuthorityAI && s.ResistanceAI {
		s.ActingSide = game.SideNone
		return false
	}
	s.ActingSide = s.PlayerSide
	return true
}
