package engine

import (
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// ResolveTargetAction resolves a player attempt on the live target at the
// given node. A success roll (uniform [0,100), success iff roll <= chance)
// gates the target's good/bad/ongoing effect lists; the attempt is logged to
// the message sink whichever way the roll goes.
func (en *Engine) ResolveTargetAction(s *game.Session, nodeID int) *OutcomeReport {
	node := s.NodeByID(nodeID)
	if node == nil || node.TargetID == game.NoTarget {
		logging.Error("target action with no target at node", nil, logging.Fields{"node_id": nodeID})
		return glitchReport(s.PlayerSide)
	}
	target := s.TargetByID(node.TargetID)
	if target == nil || target.Status != game.TargetLive {
		logging.Error("target action on non-live target", nil, logging.Fields{"node_id": nodeID, "target_id": node.TargetID})
		return glitchReport(s.PlayerSide)
	}
	profile := en.catalog.TargetProfileNamed(target.Profile)
	if profile == nil {
		logging.Error("target has no content profile", nil, logging.Fields{"profile": target.Profile})
		return glitchReport(s.PlayerSide)
	}

	if s.PlayerSide == game.SideResistance {
		if d := en.CheckCaptured(s, nodeID, game.PlayerID); d != nil {
			return en.CapturePlayer(s, d)
		}
	}

	chance := en.scorer.TargetChance(s, target, node)
	roll := en.rng.Intn(100)
	success := roll <= chance

	rb := &reportBuilder{}
	if success {
		rb.addTop(fmt.Sprintf("Target attempt succeeded: %s", profile.Name))
		en.runEffects(s, rb, profile.Good, node, nil)
		for i := range profile.Ongoing {
			eff := profile.Ongoing[i]
			id := en.AddOngoing(s, "target:"+profile.Name, &eff, nodeID, profile.OngoingTurns)
			if target.OngoingID == 0 {
				target.OngoingID = id
			}
		}
		target.Status = game.TargetCompleted
		node.TargetID = game.NoTarget
		s.AddMessage(game.MessageTarget, s.PlayerSide,
			fmt.Sprintf("Target %s attempted and succeeded (rolled %d, needed %d or less)", profile.Name, roll, chance))
	} else {
		rb.addTop(fmt.Sprintf("Target attempt failed: %s", profile.Name))
		en.runEffects(s, rb, profile.Bad, node, nil)
		s.AddMessage(game.MessageTarget, s.PlayerSide,
			fmt.Sprintf("Target %s attempted and failed (rolled %d, needed %d or less)", profile.Name, roll, chance))
	}
	return rb.report(s.PlayerSide, "target")
}
