package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdamaso/cityfall/internal/game"
)

var (
	ErrSessionNameTooLong = errors.New("session name exceeds 32 characters")
	ErrNoNodes            = errors.New("session needs at least one district")
	ErrInvalidSide        = errors.New("side must be authority or resistance")
	ErrUnknownArchetype   = errors.New("archetype not present in the content catalog")
)

// NodeSpec describes one district in a create-session request. The map graph
// is supplied by the caller; the engine never invents layout.
type NodeSpec struct {
	NodeID    int    `json:"node_id"`
	Arc       string `json:"arc"`
	Security  int    `json:"security"`
	Stability int    `json:"stability"`
	Support   int    `json:"support"`
	Adjacent  []int  `json:"adjacent"`
	Target    string `json:"target,omitempty"`
	// TargetTurn schedules the objective: it stays in the dormant pool
	// until this turn. Zero or one means live from the start.
	TargetTurn int `json:"target_turn,omitempty"`
}

// ActorSpec describes one starting NPC.
type ActorSpec struct {
	Name         string    `json:"name"`
	Arc          string    `json:"arc"`
	Side         game.Side `json:"side"`
	NodeID       int       `json:"node_id"`
	Invisibility int       `json:"invisibility"`
}

// CreateSessionRequest carries everything needed to seed a new session.
type CreateSessionRequest struct {
	Name         string      `json:"name"`
	PlayerName   string      `json:"player_name"`
	PlayerEmail  string      `json:"player_email"`
	PlayerSide   game.Side   `json:"player_side"`
	PlayerArc    string      `json:"player_arc"`
	PlayerNodeID int         `json:"player_node_id"`
	Nodes        []NodeSpec  `json:"nodes"`
	Actors       []ActorSpec `json:"actors"`
	AuthorityAI  bool        `json:"authority_ai"`
	ResistanceAI bool        `json:"resistance_ai"`
}

// CreateSession validates the request against the content catalog, builds the
// world aggregate and persists it.
func CreateSession(repo interface {
	CreateSession(s *game.Session) error
	UpsertUser(email, uuid, name string) error
}, catalog *game.Catalog, req CreateSessionRequest, actionTimeout time.Duration) (*game.Session, error) {
	if len(req.Name) > 32 {
		return nil, ErrSessionNameTooLong
	}
	if len(req.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	if req.PlayerSide != game.SideAuthority && req.PlayerSide != game.SideResistance {
		return nil, ErrInvalidSide
	}
	if catalog.ActionFor(req.PlayerArc) == nil {
		return nil, fmt.Errorf("%w: player arc '%s'", ErrUnknownArchetype, req.PlayerArc)
	}

	nodeIDs := make(map[int]bool, len(req.Nodes))
	for _, n := range req.Nodes {
		if n.NodeID < 0 {
			return nil, fmt.Errorf("node ids must be non-negative, got %d", n.NodeID)
		}
		if nodeIDs[n.NodeID] {
			return nil, fmt.Errorf("duplicate node id %d", n.NodeID)
		}
		nodeIDs[n.NodeID] = true
	}
	for _, n := range req.Nodes {
		for _, adj := range n.Adjacent {
			if !nodeIDs[adj] {
				return nil, fmt.Errorf("node %d lists unknown neighbour %d", n.NodeID, adj)
			}
		}
		if n.Target != "" && catalog.TargetProfileNamed(n.Target) == nil {
			return nil, fmt.Errorf("%w: target profile '%s'", ErrUnknownArchetype, n.Target)
		}
	}
	if !nodeIDs[req.PlayerNodeID] {
		return nil, fmt.Errorf("player start node %d does not exist", req.PlayerNodeID)
	}
	for _, a := range req.Actors {
		if catalog.ActionFor(a.Arc) == nil {
			return nil, fmt.Errorf("%w: actor arc '%s'", ErrUnknownArchetype, a.Arc)
		}
		if a.Side != game.SideAuthority && a.Side != game.SideResistance {
			return nil, ErrInvalidSide
		}
		if !nodeIDs[a.NodeID] {
			return nil, fmt.Errorf("actor '%s' starts at unknown node %d", a.Name, a.NodeID)
		}
	}

	sessionUUID := uuid.NewString()
	s := &game.Session{
		SessionUUID:   sessionUUID,
		Name:          req.Name,
		JoinCode:      joinCode(sessionUUID),
		OwnerEmail:    req.PlayerEmail,
		Status:        game.StatusInProgress,
		Turn:          1,
		ActingSide:    req.PlayerSide,
		ActionsBase:   catalog.Tuning.ActionsPerTurn,
		SecurityState: game.SecurityNormal,
		CityLoyalty:   catalog.Tuning.MaxCityLoyalty / 2,

		PlayerName:         req.PlayerName,
		PlayerEmail:        req.PlayerEmail,
		PlayerSide:         req.PlayerSide,
		PlayerArc:          req.PlayerArc,
		PlayerNodeID:       req.PlayerNodeID,
		PlayerInvisibility: catalog.Tuning.MaxInvisibility,
		PlayerStatus:       game.ActorActive,
		PlayerNodeCaptured: game.NoNode,

		AuthorityAI:  req.AuthorityAI,
		ResistanceAI: req.ResistanceAI,

		Factions: []game.Faction{
			{Side: game.SideAuthority, Approval: catalog.Tuning.MaxFactionApproval / 2},
			{Side: game.SideResistance, Approval: catalog.Tuning.MaxFactionApproval / 2},
		},
		ActionDeadline: time.Now().Add(actionTimeout),
	}

	targetID := 1
	for _, ns := range req.Nodes {
		node := game.Node{
			NodeID:    ns.NodeID,
			Arc:       ns.Arc,
			Security:  clampStat(ns.Security, catalog.Tuning.MaxStat),
			Stability: clampStat(ns.Stability, catalog.Tuning.MaxStat),
			Support:   clampStat(ns.Support, catalog.Tuning.MaxStat),
			TargetID:  game.NoTarget,
		}
		node.SetAdjacentIDs(ns.Adjacent)
		if ns.Target != "" {
			node.TargetID = targetID
			status := game.TargetLive
			if ns.TargetTurn > 1 {
				status = game.TargetDormant
			}
			s.Targets = append(s.Targets, game.Target{
				TargetID:       targetID,
				NodeID:         ns.NodeID,
				Profile:        ns.Target,
				Status:         status,
				ActivationTurn: ns.TargetTurn,
			})
			targetID++
		}
		s.Nodes = append(s.Nodes, node)
	}

	for i, as := range req.Actors {
		s.Actors = append(s.Actors, game.Actor{
			ActorID:      i + 1,
			Name:         as.Name,
			Arc:          as.Arc,
			Side:         as.Side,
			NodeID:       as.NodeID,
			Invisibility: clampStat(as.Invisibility, catalog.Tuning.MaxInvisibility),
			Status:       game.ActorActive,
			NodeCaptured: game.NoNode,
		})
	}

	s.AddMessage(game.MessageTurn, game.SideNone, "Turn 1 begins")

	if req.PlayerEmail != "" {
		_ = repo.UpsertUser(req.PlayerEmail, sessionUUID, req.PlayerName)
	}
	if err := repo.CreateSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

func joinCode(sessionUUID string) string {
	return strings.ToUpper(strings.ReplaceAll(sessionUUID, "-", ""))[:8]
}

func clampStat(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
