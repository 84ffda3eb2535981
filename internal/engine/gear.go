package engine

import (
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// DiceRequest asks the presentation layer for an external dice roll before
// the gear action can finish. The continuation payload is parked on the
// session's single pending-interaction slot until the roll comes back.
type DiceRequest struct {
	SuccessChance int              `json:"success_chance"`
	RenownCost    int              `json:"renown_cost"`
	Context       game.DiceContext `json:"context"`
}

// ResolveGearAction resolves a node-gear action: the gear's effect list runs
// like a node action, then the compromise roll decides whether the gear
// survives. When the player cannot afford the renown cost of saving the gear
// and auto-resolve is on, the roll happens inline; otherwise the resolution
// pauses and a DiceRequest is returned instead of a report.
func (en *Engine) ResolveGearAction(s *game.Session, nodeID, gearID, actorID int) (*OutcomeReport, *DiceRequest) {
	node := s.NodeByID(nodeID)
	gear := s.GearByID(gearID)
	sub := en.subjectFor(s, actorID)
	if node == nil || gear == nil || sub == nil {
		logging.Error("gear action with missing data", nil,
			logging.Fields{"node_id": nodeID, "gear_id": gearID, "actor_id": actorID})
		side := s.PlayerSide
		if sub != nil {
			side = sub.side
		}
		return glitchReport(side), nil
	}
	def := en.catalog.GearNamed(gear.Name)
	if def == nil || len(def.Effects) == 0 {
		logging.Error("gear has no content definition", nil, logging.Fields{"gear": gear.Name})
		return glitchReport(sub.side), nil
	}

	if sub.side == game.SideResistance {
		if d := en.CheckCaptured(s, nodeID, actorID); d != nil {
			return en.executeCapture(s, sub, d), nil
		}
	}

	rb := &reportBuilder{}
	en.runEffects(s, rb, def.Effects, node, sub.actor)
	report := rb.report(sub.side, "gear")
	gear.Uses++

	if def.CompromiseChance <= 0 {
		return report, nil
	}

	// No renown to spend and auto-resolve set: skip the dice UI.
	if s.PlayerRenown < def.RenownCost && s.AutoResolve {
		roll := en.rng.Intn(100)
		if roll < def.CompromiseChance {
			en.burnGear(s, gear)
			report.TopText += "\n\n" + gear.Name + " has been compromised and destroyed"
		}
		return report, nil
	}

	dc := game.DiceContext{
		NodeID:        nodeID,
		GearID:        gearID,
		ActorID:       actorID,
		SuccessChance: 100 - def.CompromiseChance,
		RenownCost:    def.RenownCost,
		IsAction:      report.IsAction,
		TopText:       report.TopText,
		BottomText:    report.BottomText,
	}
	if err := s.SetPendingDice(&dc); err != nil {
		logging.Error("failed to park dice continuation", err, nil)
		return report, nil
	}
	return nil, &DiceRequest{SuccessChance: dc.SuccessChance, RenownCost: dc.RenownCost, Context: dc}
}

// ResumeGearAction continues a paused gear action with the external roll
// outcome. On a failed roll the player may spend the renown cost to save the
// compromised gear; otherwise it burns.
func (en *Engine) ResumeGearAction(s *game.Session, roll int, spendRenown bool) *OutcomeReport {
	dc, ok := s.PendingDiceContext()
	if !ok {
		logging.Error("dice result with no pending continuation", nil, nil)
		return glitchReport(s.PlayerSide)
	}
	s.ClearPendingDice()

	report := &OutcomeReport{
		TopText:    dc.TopText,
		BottomText: dc.BottomText,
		Icon:       "gear",
		IsAction:   dc.IsAction,
		Side:       s.PlayerSide,
	}
	gear := s.GearByID(dc.GearID)
	if gear == nil {
		return report
	}

	if roll < dc.SuccessChance {
		report.TopText += fmt.Sprintf("\n\n%s came through clean (rolled %d, needed under %d)", gear.Name, roll, dc.SuccessChance)
		return report
	}

	if spendRenown && s.PlayerRenown >= dc.RenownCost {
		s.PlayerRenown -= dc.RenownCost
		report.TopText += fmt.Sprintf("\n\n%s was compromised but saved", gear.Name)
		report.BottomText += fmt.Sprintf("\n\nRenown -%d", dc.RenownCost)
		s.AddMessage(game.MessageGear, s.PlayerSide, gear.Name+" compromised; saved by spending renown")
		return report
	}

	en.burnGear(s, gear)
	report.TopText += fmt.Sprintf("\n\n%s has been compromised and destroyed", gear.Name)
	return report
}

func (en *Engine) burnGear(s *game.Session, gear *game.Gear) {
	for i := range s.Gear {
		if s.Gear[i].GearID == gear.GearID {
			s.AddMessage(game.MessageGear, s.PlayerSide, s.Gear[i].Name+" has been compromised and destroyed")
			s.Gear = append(s.Gear[:i], s.Gear[i+1:]...)
			return
		}
	}
}
