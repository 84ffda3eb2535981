package engine

import (
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/logging"
)

// TeamDetails is an inbound team-insertion request. An empty Arc means the
// caller has not picked a team yet and wants the list of choices.
type TeamDetails struct {
	NodeID int       `json:"node_id"`
	Arc    string    `json:"arc"`
	Side   game.Side `json:"side"`
}

// TeamPickerRequest asks the presentation layer to choose which team
// archetype to insert.
type TeamPickerRequest struct {
	NodeID  int            `json:"node_id"`
	Choices []game.TeamDef `json:"choices"`
}

// ResolveTeamAction inserts a team at a node, or returns a picker request
// when the caller has not chosen an archetype yet.
func (en *Engine) ResolveTeamAction(s *game.Session, d TeamDetails) (*OutcomeReport, *TeamPickerRequest) {
	node := s.NodeByID(d.NodeID)
	if node == nil {
		logging.Error("team action with missing node", nil, logging.Fields{"node_id": d.NodeID})
		return glitchReport(d.Side), nil
	}
	if d.Arc == "" {
		return nil, &TeamPickerRequest{NodeID: d.NodeID, Choices: en.catalog.TeamsForSide(d.Side)}
	}

	def := en.catalog.TeamNamed(d.Arc)
	if def == nil || def.Side != d.Side {
		logging.Error("unknown team archetype", nil, logging.Fields{"arc": d.Arc, "side": string(d.Side)})
		return glitchReport(d.Side), nil
	}

	teamID := 1
	for i := range s.Teams {
		if s.Teams[i].TeamID >= teamID {
			teamID = s.Teams[i].TeamID + 1
		}
	}
	s.Teams = append(s.Teams, game.Team{
		TeamID:         teamID,
		Arc:            def.Arc,
		Side:           d.Side,
		NodeID:         d.NodeID,
		TurnsRemaining: def.Lifetime,
	})
	s.AddMessage(game.MessageTurn, d.Side,
		fmt.Sprintf("%s team inserted at district %d", def.Name, d.NodeID))

	return &OutcomeReport{
		TopText:    fmt.Sprintf("%s team inserted", def.Name),
		BottomText: fmt.Sprintf("District %d\n\nLifetime %d turns", d.NodeID, def.Lifetime),
		Icon:       "team",
		IsAction:   true,
		Side:       d.Side,
	}, nil
}

// tickTeams decrements team lifetimes and withdraws expired teams. Runs once
// per turn at EndTurnEarly.
func (en *Engine) tickTeams(s *game.Session) {
	kept := s.Teams[:0]
	for i := range s.Teams {
		t := s.Teams[i]
		t.TurnsRemaining--
		if t.TurnsRemaining <= 0 {
			// Message with the content display name, matching the
			// insertion line. Fall back to the raw arc on content drift.
			name := t.Arc
			if def := en.catalog.TeamNamed(t.Arc); def != nil {
				name = def.Name
			}
			s.AddMessage(game.MessageTurn, t.Side,
				fmt.Sprintf("%s team withdrawn from district %d", name, t.NodeID))
			continue
		}
		kept = append(kept, t)
	}
	s.Teams = kept
}
