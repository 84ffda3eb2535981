package engine

import (
	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// subject is the acting entity of one action request: an NPC actor, or the
// player (actor == nil) addressed via the reserved sentinel id.
type subject struct {
	id    int
	side  game.Side
	arc   string
	actor *game.Actor
}

func (en *Engine) subjectFor(s *game.Session, actorID int) *subject {
	if actorID == game.PlayerID {
		return &subject{id: game.PlayerID, side: s.PlayerSide, arc: s.PlayerArc}
	}
	actor := s.ActorByID(actorID)
	if actor == nil {
		return nil
	}
	return &subject{id: actorID, side: actor.Side, arc: actor.Arc, actor: actor}
}

// ResolveNodeAction orchestrates one node action: validate, run the capture
// pre-check for Resistance subjects, then iterate the archetype's effect
// list in order through the effect resolver.
//
// Effects are applied strictly in list order, each observing the cumulative
// mutations of the ones before it. Iteration stops at the first error result;
// effects already applied are not rolled back. The report's IsAction flag is
// the OR of the individual effect flags and — not success or failure — is
// what decides whether the turn's action budget is consumed.
func (en *Engine) ResolveNodeAction(s *game.Session, actorID, nodeID int) *OutcomeReport {
	node := s.NodeByID(nodeID)
	sub := en.subjectFor(s, actorID)
	if node == nil || sub == nil {
		logging.Error("node action with missing actor or node", nil,
			logging.Fields{"actor_id": actorID, "node_id": nodeID})
		return glitchReport(s.PlayerSide)
	}

	// A capture replaces the requested action entirely: the action is
	// aborted, not completed, and no action point is consumed.
	if sub.side == game.SideResistance {
		if d := en.CheckCaptured(s, nodeID, actorID); d != nil {
			return en.executeCapture(s, sub, d)
		}
	}

	act := en.catalog.ActionFor(sub.arc)
	if act == nil || len(act.Effects) == 0 {
		logging.Error("archetype has no action effects", nil,
			logging.Fields{"arc": sub.arc, "actor_id": actorID})
		return glitchReport(sub.side)
	}

	rb := &reportBuilder{}
	en.runEffects(s, rb, act.Effects, node, sub.actor)
	return rb.report(sub.side, act.Sprite)
}

// runEffects iterates an ordered effect list, accumulating text fragments
// and stopping at the first error result (fail-fast, no rollback).
func (en *Engine) runEffects(s *game.Session, rb *reportBuilder, effects []game.Effect, node *game.Node, actor *game.Actor) {
	for i := range effects {
		res := en.ResolveEffect(s, &effects[i], node, actor)
		if res.Skipped {
			continue
		}
		rb.absorb(res)
		if res.IsError {
			return
		}
	}
}

func (en *Engine) executeCapture(s *game.Session, sub *subject, d *CaptureDetails) *OutcomeReport {
	if sub.actor == nil {
		return en.CapturePlayer(s, d)
	}
	return en.CaptureActor(s, sub.actor, d)
}
