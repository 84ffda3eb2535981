package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// EffectResult is the outcome of resolving one atomic effect.
type EffectResult struct {
	TopText    string
	BottomText string
	// IsAction reports whether applying this effect consumes an action
	// point. The action resolver ORs this across the whole effect list.
	IsAction bool
	// IsError marks an unresolvable effect (unknown outcome kind, missing
	// target). No mutation happens on an error result.
	IsError bool
	// Skipped marks an effect whose criteria were not met; not an error.
	Skipped bool
	// OngoingID links a registered ongoing effect, 0 when none.
	OngoingID int
}

func errorResult(msg string) EffectResult {
	return EffectResult{TopText: "Something's gone wrong", BottomText: msg, IsError: true}
}

// ResolveEffect applies a single atomic effect to its target and produces
// the human-readable text fragments for the outcome report. Node stats are
// clamped to [0, max stat]; bounded counters to their configured maxima.
//
// The effect definition itself is never mutated: "equal" resolution clamps a
// copy of the magnitude, not the shared content value.
func (en *Engine) ResolveEffect(s *game.Session, e *game.Effect, node *game.Node, actor *game.Actor) EffectResult {
	if e == nil {
		return errorResult("missing effect data")
	}
	if !en.criteriaMet(s, e, node, actor) {
		return EffectResult{Skipped: true}
	}

	var res EffectResult
	switch e.Outcome {
	case game.OutcomeNodeSecurity, game.OutcomeNodeStability, game.OutcomeNodeSupport:
		if node == nil {
			return errorResult("missing district data")
		}
		res = en.resolveNodeStat(e, node)
	case game.OutcomeRebelCause:
		res = en.resolveApproval(s, e, game.SideResistance)
	case game.OutcomeFactionApproval:
		res = en.resolveApproval(s, e, subjectSide(s, actor))
	case game.OutcomeRenown:
		res = en.resolveRenown(s, e, node, actor)
	case game.OutcomeInvisibility:
		res = en.resolveInvisibility(s, e, node, actor)
	case game.OutcomeCityLoyalty:
		res = en.resolveCityLoyalty(s, e)
	default:
		logging.Error("unrecognized effect outcome", nil, logging.Fields{"outcome": string(e.Outcome), "effect": e.Name})
		return errorResult("unrecognized effect: " + e.Name)
	}
	if res.IsError {
		return res
	}

	res.IsAction = e.IsAction
	if res.TopText == "" {
		res.TopText = renderTopText(e)
	}
	if e.OngoingTurns > 0 {
		nodeID := game.NoNode
		if node != nil {
			nodeID = node.NodeID
		}
		res.OngoingID = en.AddOngoing(s, e.Name, e, nodeID, e.OngoingTurns)
	}
	return res
}

func (en *Engine) resolveNodeStat(e *game.Effect, node *game.Node) EffectResult {
	label, slot := nodeStatSlot(e.Outcome, node)
	switch e.Operator {
	case game.OperatorAdd:
		*slot = clampInt(*slot+e.Value, 0, en.tuning.MaxStat)
		return EffectResult{BottomText: fmt.Sprintf("%s +%d", label, e.Value)}
	case game.OperatorSubtract:
		*slot = clampInt(*slot-e.Value, 0, en.tuning.MaxStat)
		return EffectResult{BottomText: fmt.Sprintf("%s -%d", label, e.Value)}
	case game.OperatorEqual:
		// Clamp an immutable copy of the magnitude; the shared effect
		// definition keeps its configured value.
		v := clampInt(e.Value, 0, en.tuning.MaxStat)
		*slot = v
		return EffectResult{BottomText: fmt.Sprintf("%s set to %d", label, v)}
	}
	return errorResult("unrecognized operator: " + string(e.Operator))
}

func (en *Engine) resolveApproval(s *game.Session, e *game.Effect, side game.Side) EffectResult {
	f := s.FactionFor(side)
	if f == nil {
		return errorResult("missing faction data")
	}
	label := "Rebel Cause"
	if side == game.SideAuthority {
		label = "HQ Approval"
	}
	res, ok := applyBounded(&f.Approval, e, 0, en.tuning.MaxFactionApproval, label)
	if !ok {
		return res
	}
	en.checkFactionLimit(s, f)
	return res
}

func (en *Engine) resolveCityLoyalty(s *game.Session, e *game.Effect) EffectResult {
	res, ok := applyBounded(&s.CityLoyalty, e, 0, en.tuning.MaxCityLoyalty, "City Loyalty")
	if !ok {
		return res
	}
	en.checkCityLoyalty(s)
	return res
}

func (en *Engine) resolveRenown(s *game.Session, e *game.Effect, node *game.Node, actor *game.Actor) EffectResult {
	// Player-vs-actor is decided by comparing the target node to the
	// player's current node.
	if node != nil && node.NodeID == s.PlayerNodeID {
		res, _ := applyBounded(&s.PlayerRenown, e, 0, en.tuning.MaxRenown, "Renown")
		return res
	}
	if actor == nil {
		return errorResult("missing actor data")
	}
	res, _ := applyBounded(&actor.Renown, e, 0, en.tuning.MaxRenown, "Renown")
	return res
}

func (en *Engine) resolveInvisibility(s *game.Session, e *game.Effect, node *game.Node, actor *game.Actor) EffectResult {
	if node != nil && node.NodeID == s.PlayerNodeID {
		if s.PlayerSide != game.SideResistance {
			return EffectResult{Skipped: true}
		}
		res, _ := applyBounded(&s.PlayerInvisibility, e, 0, en.tuning.MaxInvisibility, "Invisibility")
		return res
	}
	if actor == nil {
		return errorResult("missing actor data")
	}
	if actor.Side != game.SideResistance {
		return EffectResult{Skipped: true}
	}
	res, _ := applyBounded(&actor.Invisibility, e, 0, en.tuning.MaxInvisibility, "Invisibility")
	return res
}

// applyBounded applies the effect operator to a bounded counter, clamping to
// [lo, hi]. Returns ok=false when the operator itself is unrecognized.
func applyBounded(slot *int, e *game.Effect, lo, hi int, label string) (EffectResult, bool) {
	switch e.Operator {
	case game.OperatorAdd:
		*slot = clampInt(*slot+e.Value, lo, hi)
		return EffectResult{BottomText: fmt.Sprintf("%s +%d", label, e.Value)}, true
	case game.OperatorSubtract:
		*slot = clampInt(*slot-e.Value, lo, hi)
		return EffectResult{BottomText: fmt.Sprintf("%s -%d", label, e.Value)}, true
	case game.OperatorEqual:
		v := clampInt(e.Value, lo, hi)
		*slot = v
		return EffectResult{BottomText: fmt.Sprintf("%s set to %d", label, v)}, true
	}
	return errorResult("unrecognized operator: " + string(e.Operator)), false
}

func nodeStatSlot(outcome game.EffectOutcome, node *game.Node) (string, *int) {
	switch outcome {
	case game.OutcomeNodeSecurity:
		return "Security", &node.Security
	case game.OutcomeNodeStability:
		return "Stability", &node.Stability
	default:
		return "Support", &node.Support
	}
}

func subjectSide(s *game.Session, actor *game.Actor) game.Side {
	if actor != nil {
		return actor.Side
	}
	return s.PlayerSide
}

// renderTopText substitutes the {value} token in the effect's narrative
// template, falling back to the effect name.
func renderTopText(e *game.Effect) string {
	if e.TopText == "" {
		return e.Name
	}
	return strings.ReplaceAll(e.TopText, "{value}", strconv.Itoa(e.Value))
}

// criteriaMet evaluates the effect's applicability gates. An unmet criterion
// skips the effect; it is not an error.
func (en *Engine) criteriaMet(s *game.Session, e *game.Effect, node *game.Node, actor *game.Actor) bool {
	for _, c := range e.Criteria {
		switch c.Check {
		case game.CriterionNodeSecurityMax:
			if node == nil || node.Security > c.Threshold {
				return false
			}
		case game.CriterionNodeSecurityMin:
			if node == nil || node.Security < c.Threshold {
				return false
			}
		case game.CriterionNodeStabilityMin:
			if node == nil || node.Stability < c.Threshold {
				return false
			}
		case game.CriterionNodeSupportMin:
			if node == nil || node.Support < c.Threshold {
				return false
			}
		case game.CriterionSecurityStateIs:
			if s.SecurityState != c.State {
				return false
			}
		case game.CriterionActorActive:
			if actor != nil && actor.Status != game.ActorActive {
				return false
			}
		default:
			logging.Error("unrecognized effect criterion", nil, logging.Fields{"check": c.Check, "effect": e.Name})
			return false
		}
	}
	return true
}
