package service

import (
	"math/rand"
	"testing"

	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/game"
)

type mockRepo struct {
	sessions    map[string]*game.Session
	updated     *game.Session
	statsCalled bool
	users       map[string]string
}

func newMockRepo(sessions ...*game.Session) *mockRepo {
	m := &mockRepo{sessions: map[string]*game.Session{}, users: map[string]string{}}
	for _, s := range sessions {
		m.sessions[s.SessionUUID] = s
	}
	return m
}

func (m *mockRepo) FindSessionByUUID(uuid string) (*game.Session, error) {
	if s, ok := m.sessions[uuid]; ok {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

func (m *mockRepo) UpdateSession(s *game.Session) error {
	m.updated = s
	return nil
}

func (m *mockRepo) UpdateStatsOnSessionEnd(s *game.Session, resigned bool) error {
	m.statsCalled = true
	return nil
}

func (m *mockRepo) CreateSession(s *game.Session) error {
	m.sessions[s.SessionUUID] = s
	return nil
}

func (m *mockRepo) UpsertUser(email, uuid, name string) error {
	m.users[email] = name
	return nil
}

func testCatalog() *game.Catalog {
	return &game.Catalog{
		Actions: map[string]game.ActionDef{
			"agitator": {
				Name: "Stir Unrest",
				Effects: []game.Effect{
					{Name: "rally", Outcome: game.OutcomeNodeSupport, Operator: game.OperatorAdd, Value: 1, TopText: "Support grows", IsAction: true},
				},
			},
		},
		Gear: map[string]game.GearDef{
			"holo_mask": {
				Name: "holo mask", CompromiseChance: 30, RenownCost: 2,
				Effects: []game.Effect{
					{Name: "slip past", Outcome: game.OutcomeInvisibility, Operator: game.OperatorAdd, Value: 1, IsAction: true},
				},
			},
		},
		Targets: map[string]game.TargetProfile{},
		Teams: map[string]game.TeamDef{
			"erasure": {Name: "Erasure", Arc: game.ArcErasure, Side: game.SideAuthority, Lifetime: 3},
		},
		Tuning: game.Tuning{
			MaxStat: 3, MaxInvisibility: 3, MaxRenown: 10,
			MaxCityLoyalty: 10, LoyaltyCountdown: 3,
			MaxFactionApproval: 10, FactionFireCountdown: 3,
			TraitorChancePerCapture: 40, CaptureLoyaltyDelta: 2,
			CaptureTimer: 3, ReleaseInvisibility: 2, ActionsPerTurn: 2,
		},
	}
}

func testSession(uuid string) *game.Session {
	s := &game.Session{
		SessionUUID:        uuid,
		Status:             game.StatusInProgress,
		Turn:               1,
		ActionsBase:        2,
		SecurityState:      game.SecurityNormal,
		CityLoyalty:        5,
		PlayerName:         "P1",
		PlayerSide:         game.SideResistance,
		PlayerArc:          "agitator",
		PlayerNodeID:       0,
		PlayerRenown:       5,
		PlayerInvisibility: 3,
		PlayerStatus:       game.ActorActive,
		PlayerNodeCaptured: game.NoNode,
		Nodes: []game.Node{
			{NodeID: 0, Arc: "industrial", Security: 2, Stability: 2, Support: 2, TargetID: game.NoTarget},
			{NodeID: 1, Arc: "civic", Security: 1, Stability: 2, Support: 1, TargetID: game.NoTarget},
		},
		Factions: []game.Faction{
			{Side: game.SideAuthority, Approval: 5},
			{Side: game.SideResistance, Approval: 5},
		},
	}
	s.Nodes[0].SetAdjacentIDs([]int{1})
	s.Nodes[1].SetAdjacentIDs([]int{0})
	return s
}

func testEngine() *engine.Engine {
	return engine.NewWithRand(testCatalog(), rand.New(rand.NewSource(1)))
}

func TestSubmitNodeAction_ConsumesActionAndPersists(t *testing.T) {
	s := testSession("s1")
	mr := newMockRepo(s)
	eng := testEngine()

	report, err := SubmitNodeAction(mr, eng, "s1", game.PlayerID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsAction {
		t.Fatalf("expected an action-consuming report")
	}
	if s.ActionsUsed != 1 {
		t.Fatalf("actions used = %d, want 1", s.ActionsUsed)
	}
	if mr.updated == nil {
		t.Fatalf("session should be persisted after the action")
	}
}

func TestSubmitNodeAction_UnknownSession(t *testing.T) {
	mr := newMockRepo()
	if _, err := SubmitNodeAction(mr, testEngine(), "nope", game.PlayerID, 0); err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitNodeAction_CapturedPlayerRejected(t *testing.T) {
	s := testSession("s1")
	s.PlayerStatus = game.ActorCaptured
	mr := newMockRepo(s)

	if _, err := SubmitNodeAction(mr, testEngine(), "s1", game.PlayerID, 0); err != ErrPlayerCaptured {
		t.Fatalf("err = %v, want ErrPlayerCaptured", err)
	}
}

func TestSubmitGearAction_DiceRequestDefersActionPoint(t *testing.T) {
	s := testSession("s1")
	s.Gear = []game.Gear{{GearID: 1, Name: "holo mask"}}
	mr := newMockRepo(s)
	eng := testEngine()

	report, dice, err := SubmitGearAction(mr, eng, "s1", 0, 1, game.PlayerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != nil || dice == nil {
		t.Fatalf("expected a dice request, got report=%v dice=%v", report, dice)
	}
	if s.ActionsUsed != 0 {
		t.Fatalf("no action point before the roll resolves, used=%d", s.ActionsUsed)
	}

	resumed, err := SubmitDiceResult(mr, eng, "s1", 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resumed == nil || !resumed.IsAction {
		t.Fatalf("resumed report should consume the action: %+v", resumed)
	}
	if s.ActionsUsed != 1 {
		t.Fatalf("actions used = %d after resume, want 1", s.ActionsUsed)
	}
}

func TestSubmitTeamAction_PickerDoesNotConsumeAction(t *testing.T) {
	s := testSession("s1")
	s.PlayerSide = game.SideAuthority
	mr := newMockRepo(s)
	eng := testEngine()

	report, picker, err := SubmitTeamAction(mr, eng, "s1", engine.TeamDetails{NodeID: 0, Side: game.SideAuthority})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != nil || picker == nil {
		t.Fatalf("expected picker, got report=%v picker=%v", report, picker)
	}
	if s.ActionsUsed != 0 {
		t.Fatalf("picker must not consume an action")
	}

	report, picker, err = SubmitTeamAction(mr, eng, "s1", engine.TeamDetails{NodeID: 0, Arc: game.ArcErasure, Side: game.SideAuthority})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if picker != nil || report == nil || !report.IsAction {
		t.Fatalf("insertion should consume an action: report=%v picker=%v", report, picker)
	}
	if s.ActionsUsed != 1 {
		t.Fatalf("actions used = %d, want 1", s.ActionsUsed)
	}
}
