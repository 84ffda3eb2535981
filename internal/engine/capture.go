package engine

import (
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// CaptureDetails is the transient record produced by a capture check and
// consumed once by the capture state transition. ActorID is the reserved
// player sentinel when the player is the one caught.
type CaptureDetails struct {
	NodeID     int
	TeamID     int
	ActorID    int
	EffectText string
}

// CheckCaptured determines whether the Resistance actor (or player, via the
// reserved sentinel id) would be captured at the given node. Capture
// requires all of:
//   - the subject is Active and physically at the node,
//   - invisibility at or below the posture threshold (exactly 0 under
//     Normal/APB, <=1 under the heightened states),
//   - an Erasure team at the node, or — only under a security alert — at a
//     directly adjacent node.
//
// Returns nil when no capture triggers. Captures only ever apply to the
// Resistance side.
func (en *Engine) CheckCaptured(s *game.Session, nodeID, actorID int) *CaptureDetails {
	var status game.ActorStatus
	var side game.Side
	var invisibility, atNode int

	if actorID == game.PlayerID {
		status = s.PlayerStatus
		side = s.PlayerSide
		invisibility = s.PlayerInvisibility
		atNode = s.PlayerNodeID
	} else {
		actor := s.ActorByID(actorID)
		if actor == nil {
			return nil
		}
		status = actor.Status
		side = actor.Side
		invisibility = actor.Invisibility
		atNode = actor.NodeID
	}

	if side != game.SideResistance || status != game.ActorActive || atNode != nodeID {
		return nil
	}

	threshold := 0
	if s.SecurityState == game.SecurityAlert || s.SecurityState == game.SecurityCrackdown {
		threshold = 1
	}
	if invisibility > threshold {
		return nil
	}

	team := en.erasureTeamNear(s, nodeID)
	if team == nil {
		return nil
	}
	return &CaptureDetails{NodeID: nodeID, TeamID: team.TeamID, ActorID: actorID}
}

// erasureTeamNear finds an Erasure team at the node, widening the search to
// adjacent nodes only while a security alert is active.
func (en *Engine) erasureTeamNear(s *game.Session, nodeID int) *game.Team {
	for _, t := range s.TeamsAt(nodeID) {
		if t.Arc == game.ArcErasure {
			return t
		}
	}
	if s.SecurityState != game.SecurityAlert {
		return nil
	}
	node := s.NodeByID(nodeID)
	if node == nil {
		return nil
	}
	for _, adj := range node.AdjacentIDs() {
		for _, t := range s.TeamsAt(adj) {
			if t.Arc == game.ArcErasure {
				return t
			}
		}
	}
	return nil
}

// CapturePlayer executes the capture state transition for the player: city
// loyalty rises, invisibility is zeroed, all gear is confiscated and the
// capture timer starts.
func (en *Engine) CapturePlayer(s *game.Session, d *CaptureDetails) *OutcomeReport {
	s.CityLoyalty = clampInt(s.CityLoyalty+en.tuning.CaptureLoyaltyDelta, 0, en.tuning.MaxCityLoyalty)
	en.checkCityLoyalty(s)

	s.PlayerInvisibility = 0
	s.PlayerStatus = game.ActorCaptured
	s.PlayerNodeCaptured = d.NodeID
	s.PlayerCaptureTimer = en.tuning.CaptureTimer
	s.PlayerTimesCaptured++

	confiscated := len(s.Gear)
	s.Gear = nil

	text := "You have been captured by an Erasure team"
	if d.EffectText != "" {
		text += "\n\n" + d.EffectText
	}
	bottom := fmt.Sprintf("City Loyalty +%d", en.tuning.CaptureLoyaltyDelta)
	if confiscated > 0 {
		bottom += fmt.Sprintf("\n\nAll gear confiscated (%d items)", confiscated)
	}
	s.AddMessage(game.MessageCapture, game.SideResistance, text)
	logging.Info("player captured", logging.Fields{"node_id": d.NodeID, "team_id": d.TeamID, "times": s.PlayerTimesCaptured})
	return &OutcomeReport{TopText: text, BottomText: bottom, Icon: "capture", Capture: true, Side: game.SideResistance}
}

// CaptureActor executes the capture state transition for a Resistance actor.
func (en *Engine) CaptureActor(s *game.Session, actor *game.Actor, d *CaptureDetails) *OutcomeReport {
	s.CityLoyalty = clampInt(s.CityLoyalty+en.tuning.CaptureLoyaltyDelta, 0, en.tuning.MaxCityLoyalty)
	en.checkCityLoyalty(s)

	actor.Invisibility = 0
	actor.Status = game.ActorCaptured
	actor.InactiveReason = "captured"
	actor.NodeCaptured = d.NodeID
	actor.CaptureTimer = en.tuning.CaptureTimer
	actor.TimesCaptured++

	text := fmt.Sprintf("%s has been captured by an Erasure team", actor.Name)
	bottom := fmt.Sprintf("City Loyalty +%d", en.tuning.CaptureLoyaltyDelta)
	s.AddMessage(game.MessageCapture, game.SideResistance, text)
	logging.Info("actor captured", logging.Fields{"actor_id": actor.ActorID, "node_id": d.NodeID, "times": actor.TimesCaptured})
	return &OutcomeReport{TopText: text, BottomText: bottom, Icon: "capture", Capture: true, Side: game.SideResistance}
}

// ReleasePlayer is the inverse transition: loyalty falls, a fixed
// invisibility bonus is granted and the Questionable condition sticks.
func (en *Engine) ReleasePlayer(s *game.Session) *OutcomeReport {
	s.CityLoyalty = clampInt(s.CityLoyalty-en.tuning.CaptureLoyaltyDelta, 0, en.tuning.MaxCityLoyalty)
	en.checkCityLoyalty(s)

	s.PlayerStatus = game.ActorActive
	s.PlayerNodeCaptured = game.NoNode
	s.PlayerCaptureTimer = 0
	s.PlayerInvisibility = clampInt(en.tuning.ReleaseInvisibility, 0, en.tuning.MaxInvisibility)
	s.AddPlayerCondition(game.ConditionQuestionable)

	text := "You have been released from custody"
	bottom := fmt.Sprintf("City Loyalty -%d\n\nInvisibility set to %d\n\nCondition gained: Questionable",
		en.tuning.CaptureLoyaltyDelta, s.PlayerInvisibility)
	s.AddMessage(game.MessageRelease, game.SideResistance, text)
	return &OutcomeReport{TopText: text, BottomText: bottom, Icon: "release", Side: game.SideResistance}
}

// ReleaseActor releases a captured actor and runs the traitor roll: the more
// often an actor has been captured, the more likely they turn informant.
func (en *Engine) ReleaseActor(s *game.Session, actor *game.Actor) *OutcomeReport {
	s.CityLoyalty = clampInt(s.CityLoyalty-en.tuning.CaptureLoyaltyDelta, 0, en.tuning.MaxCityLoyalty)
	en.checkCityLoyalty(s)

	heldAt := actor.NodeCaptured
	actor.Status = game.ActorActive
	actor.InactiveReason = ""
	actor.NodeCaptured = game.NoNode
	actor.CaptureTimer = 0
	actor.Invisibility = clampInt(en.tuning.ReleaseInvisibility, 0, en.tuning.MaxInvisibility)
	actor.AddCondition(game.ConditionQuestionable)

	roll := en.rng.Intn(100)
	if roll < actor.TimesCaptured*en.tuning.TraitorChancePerCapture {
		actor.Traitor = true
		// A turned actor gives up the cell in the district they were held.
		if heldAt != game.NoNode {
			actor.AddSecret(fmt.Sprintf("district_%d_cell", heldAt))
		}
		logging.Info("released actor turned traitor", logging.Fields{"actor_id": actor.ActorID, "roll": roll, "times": actor.TimesCaptured, "secrets": actor.SecretList()})
	}

	text := fmt.Sprintf("%s has been released from custody", actor.Name)
	s.AddMessage(game.MessageRelease, game.SideResistance, text)
	return &OutcomeReport{TopText: text, BottomText: "Condition gained: Questionable", Icon: "release", Side: game.SideResistance}
}

// CheckStartTurnCapture runs the start-of-turn capture check for the player:
// being caught before you got out of bed. Called once at StartTurnEarly.
func (en *Engine) CheckStartTurnCapture(s *game.Session) *OutcomeReport {
	if s.PlayerStatus != game.ActorActive {
		return nil
	}
	d := en.CheckCaptured(s, s.PlayerNodeID, game.PlayerID)
	if d == nil {
		return nil
	}
	d.EffectText = "They were waiting for you at dawn."
	return en.CapturePlayer(s, d)
}

// tickCaptureTimers decrements all running capture timers and releases
// anyone whose timer reaches zero. Called once per turn at EndTurnEarly.
func (en *Engine) tickCaptureTimers(s *game.Session) {
	if s.PlayerStatus == game.ActorCaptured {
		s.PlayerCaptureTimer--
		if s.PlayerCaptureTimer <= 0 {
			en.ReleasePlayer(s)
		}
	}
	for i := range s.Actors {
		a := &s.Actors[i]
		if a.Status != game.ActorCaptured {
			continue
		}
		a.CaptureTimer--
		if a.CaptureTimer <= 0 {
			en.ReleaseActor(s, a)
		}
	}
}
