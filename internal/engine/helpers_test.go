package engine

import (
	"math/rand"

	"github.com/pdamaso/cityfall/internal/game"
)

// scriptedRand pops pre-set values; once exhausted it returns 0.
type scriptedRand struct {
	vals []int
	i    int
}

func (r *scriptedRand) Intn(n int) int {
	if r.i >= len(r.vals) {
		return 0
	}
	v := r.vals[r.i] % n
	r.i++
	return v
}

type seededRand struct{ r *rand.Rand }

func newSeededRand(seed int64) *seededRand {
	return &seededRand{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRand) Intn(n int) int { return s.r.Intn(n) }

func testTuning() game.Tuning {
	return game.Tuning{
		MaxStat:                 3,
		MaxInvisibility:         3,
		MaxRenown:               10,
		MaxCityLoyalty:          10,
		LoyaltyCountdown:        3,
		MaxFactionApproval:      10,
		FactionFireCountdown:    3,
		TraitorChancePerCapture: 40,
		CaptureLoyaltyDelta:     2,
		CaptureTimer:            3,
		ReleaseInvisibility:     2,
		ActionsPerTurn:          2,
	}
}

func testCatalog() *game.Catalog {
	return &game.Catalog{
		Actions: map[string]game.ActionDef{
			"agitator": {
				Name:    "Stir Unrest",
				Tooltip: "Raise support, lower security",
				Sprite:  "agitator",
				Effects: []game.Effect{
					{Name: "rally", Outcome: game.OutcomeNodeSupport, Operator: game.OperatorAdd, Value: 1, TopText: "Support for the cause grows", IsAction: true},
					{Name: "distract", Outcome: game.OutcomeNodeSecurity, Operator: game.OperatorSubtract, Value: 1, TopText: "Patrols are thinned out"},
				},
			},
			"enforcer": {
				Name:   "Lock Down",
				Sprite: "enforcer",
				Effects: []game.Effect{
					{Name: "crackdown", Outcome: game.OutcomeNodeSecurity, Operator: game.OperatorAdd, Value: 1, TopText: "Checkpoints go up", IsAction: true},
				},
			},
		},
		Gear: map[string]game.GearDef{
			"holo_mask": {
				Name:             "holo mask",
				Arc:              "infiltration",
				CompromiseChance: 30,
				RenownCost:       2,
				Effects: []game.Effect{
					{Name: "slip past", Outcome: game.OutcomeInvisibility, Operator: game.OperatorAdd, Value: 1, TopText: "You vanish into the crowd", IsAction: true},
				},
			},
		},
		Targets: map[string]game.TargetProfile{
			"transit_hub": {
				Name:       "transit hub",
				BaseChance: 50,
				Good: []game.Effect{
					{Name: "sabotage", Outcome: game.OutcomeNodeStability, Operator: game.OperatorSubtract, Value: 2, TopText: "The hub grinds to a halt", IsAction: true},
				},
				Bad: []game.Effect{
					{Name: "exposure", Outcome: game.OutcomeNodeSecurity, Operator: game.OperatorAdd, Value: 1, TopText: "The watch closes in", IsAction: true},
				},
				Ongoing: []game.Effect{
					{Name: "disruption", Outcome: game.OutcomeNodeStability, Operator: game.OperatorSubtract, Value: 1, TopText: "Lines stay cut"},
				},
				OngoingTurns: 2,
			},
		},
		Teams: map[string]game.TeamDef{
			"erasure": {Name: "Erasure", Arc: game.ArcErasure, Side: game.SideAuthority, Lifetime: 3},
			"rapid":   {Name: "Rapid Response", Arc: "rapid", Side: game.SideAuthority, Lifetime: 2},
		},
		Tuning: testTuning(),
	}
}

// testSession builds a small three-district session with the player as a
// Resistance fixer at node 0 and one actor per side.
func testSession() *game.Session {
	s := &game.Session{
		SessionUUID:   "test",
		Status:        game.StatusInProgress,
		Turn:          1,
		ActionsBase:   2,
		SecurityState: game.SecurityNormal,
		CityLoyalty:   5,
		PlayerName:    "P1",
		PlayerSide:    game.SideResistance,
		PlayerArc:     "agitator",
		PlayerNodeID:  0,
		PlayerRenown:  5,
		PlayerStatus:  game.ActorActive,
		PlayerInvisibility: 3,
		PlayerNodeCaptured: game.NoNode,
		Nodes: []game.Node{
			{NodeID: 0, Arc: "industrial", Security: 2, Stability: 2, Support: 2, TargetID: game.NoTarget},
			{NodeID: 1, Arc: "civic", Security: 1, Stability: 2, Support: 1, TargetID: game.NoTarget},
			{NodeID: 2, Arc: "sprawl", Security: 0, Stability: 1, Support: 3, TargetID: game.NoTarget},
		},
		Actors: []game.Actor{
			{ActorID: 1, Name: "Vex", Arc: "agitator", Side: game.SideResistance, NodeID: 1, Invisibility: 3, Status: game.ActorActive, NodeCaptured: game.NoNode},
			{ActorID: 2, Name: "Warden", Arc: "enforcer", Side: game.SideAuthority, NodeID: 2, Status: game.ActorActive, NodeCaptured: game.NoNode},
		},
		Factions: []game.Faction{
			{Side: game.SideAuthority, Approval: 5},
			{Side: game.SideResistance, Approval: 5},
		},
	}
	s.Nodes[0].SetAdjacentIDs([]int{1, 2})
	s.Nodes[1].SetAdjacentIDs([]int{0})
	s.Nodes[2].SetAdjacentIDs([]int{0})
	return s
}

func testEngine(rng Rand) *Engine {
	if rng == nil {
		rng = newSeededRand(1)
	}
	return NewWithRand(testCatalog(), rng)
}
