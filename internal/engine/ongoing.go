package engine

import (
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
)

// AddOngoing registers a persistent effect under a fresh link id. The effect
// re-applies once per turn during end-of-turn processing until its remaining
// turns run out.
func (en *Engine) AddOngoing(s *game.Session, source string, e *game.Effect, nodeID, turns int) int {
	linkID := 1
	for i := range s.Ongoing {
		if s.Ongoing[i].LinkID >= linkID {
			linkID = s.Ongoing[i].LinkID + 1
		}
	}
	s.Ongoing = append(s.Ongoing, game.OngoingEffect{
		LinkID:         linkID,
		Source:         source,
		RemainingTurns: turns,
		Outcome:        e.Outcome,
		Operator:       e.Operator,
		Value:          e.Value,
		NodeID:         nodeID,
		Text:           e.TopText,
	})
	return linkID
}

// RemoveOngoing drops the ongoing effect with the given link id and clears
// any target that references it.
func (en *Engine) RemoveOngoing(s *game.Session, linkID int) {
	for i := range s.Ongoing {
		if s.Ongoing[i].LinkID == linkID {
			s.Ongoing = append(s.Ongoing[:i], s.Ongoing[i+1:]...)
			break
		}
	}
	for i := range s.Targets {
		if s.Targets[i].OngoingID == linkID {
			s.Targets[i].OngoingID = 0
		}
	}
}

// processOngoing re-applies every registered ongoing effect, decrements its
// timer and expires it at zero. Runs once per turn after AI processing,
// regardless of whether any side is AI-controlled.
func (en *Engine) processOngoing(s *game.Session) {
	var expired []int
	for i := range s.Ongoing {
		og := &s.Ongoing[i]
		eff := game.Effect{
			Name:     og.Source,
			Outcome:  og.Outcome,
			Operator: og.Operator,
			Value:    og.Value,
			TopText:  og.Text,
		}
		var node *game.Node
		if og.NodeID != game.NoNode {
			node = s.NodeByID(og.NodeID)
		}
		res := en.ResolveEffect(s, &eff, node, nil)
		if res.IsError {
			// Content drift (node removed, outcome renamed): drop the
			// link rather than erroring every turn.
			expired = append(expired, og.LinkID)
			continue
		}
		og.RemainingTurns--
		if og.RemainingTurns <= 0 {
			expired = append(expired, og.LinkID)
			s.AddMessage(game.MessageTurn, game.SideNone,
				fmt.Sprintf("Ongoing effect expired: %s", og.Source))
		}
	}
	for _, id := range expired {
		en.RemoveOngoing(s, id)
	}
}
