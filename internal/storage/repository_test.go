package storage

import (
	"path/filepath"
	"testing"

	"github.com/pdamaso/cityfall/internal/game"
)

func openTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	return NewSQLiteRepository(db)
}

func seedSession(t *testing.T, repo Repository) *game.Session {
	t.Helper()
	s := &game.Session{
		SessionUUID:   "round-trip",
		Name:          "round trip",
		JoinCode:      "AAAA1111",
		Status:        game.StatusInProgress,
		Turn:          3,
		SecurityState: game.SecurityAlert,
		PlayerSide:    game.SideResistance,
		PlayerStatus:  game.ActorActive,
		Nodes: []game.Node{
			{NodeID: 0, Arc: "industrial", Security: 2, Stability: 2, Support: 2, TargetID: game.NoTarget},
		},
		Gear: []game.Gear{
			{GearID: 1, Name: "holo mask", Arc: "infiltration"},
			{GearID: 2, Name: "signal jammer", Arc: "infiltration"},
		},
		Teams: []game.Team{
			{TeamID: 1, Arc: game.ArcErasure, Side: game.SideAuthority, NodeID: 0, TurnsRemaining: 1},
			{TeamID: 2, Arc: "rapid", Side: game.SideAuthority, NodeID: 0, TurnsRemaining: 3},
		},
		Ongoing: []game.OngoingEffect{
			{LinkID: 1, Source: "target:transit hub", RemainingTurns: 1, Outcome: game.OutcomeNodeStability, Operator: game.OperatorSubtract, Value: 1, NodeID: 0},
		},
		ActionAdjusts: []game.ActionAdjust{
			{Amount: -1, TurnsRemaining: 1, Reason: "wounded"},
		},
	}
	if err := repo.CreateSession(s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

// Rows the engine removes from the aggregate (burnt gear, withdrawn teams,
// expired ongoing effects, decayed adjusts) must stay gone after an update
// round-trip instead of being re-preloaded on the next load.
func TestUpdateSession_RemovedChildrenStayRemoved(t *testing.T) {
	repo := openTestRepo(t)
	seedSession(t, repo)

	s, err := repo.FindSessionByUUID("round-trip")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	// Mirror a turn's worth of engine removals: burn one gear item, withdraw
	// the expired Erasure team, expire the ongoing effect, drop the adjust.
	s.Gear = s.Gear[:1]
	kept := s.Teams[:0]
	for i := range s.Teams {
		if s.Teams[i].Arc != game.ArcErasure {
			kept = append(kept, s.Teams[i])
		}
	}
	s.Teams = kept
	s.Ongoing = nil
	s.ActionAdjusts = nil

	if err := repo.UpdateSession(s); err != nil {
		t.Fatalf("update session: %v", err)
	}

	got, err := repo.FindSessionByUUID("round-trip")
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if len(got.Gear) != 1 || got.Gear[0].GearID != 1 {
		t.Fatalf("gear after round-trip = %+v, want only gear id 1", got.Gear)
	}
	if len(got.Teams) != 1 || got.Teams[0].Arc == game.ArcErasure {
		t.Fatalf("teams after round-trip = %+v, want only the rapid team", got.Teams)
	}
	if len(got.Ongoing) != 0 {
		t.Fatalf("expired ongoing effect came back: %+v", got.Ongoing)
	}
	if len(got.ActionAdjusts) != 0 {
		t.Fatalf("decayed action adjust came back: %+v", got.ActionAdjusts)
	}
}

// Children appended in memory must still be created by the same update.
func TestUpdateSession_AppendedChildrenPersist(t *testing.T) {
	repo := openTestRepo(t)
	seedSession(t, repo)

	s, err := repo.FindSessionByUUID("round-trip")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	s.Teams = append(s.Teams, game.Team{TeamID: 3, Arc: "rapid", Side: game.SideAuthority, NodeID: 0, TurnsRemaining: 2})
	s.Gear = s.Gear[:1]

	if err := repo.UpdateSession(s); err != nil {
		t.Fatalf("update session: %v", err)
	}

	got, err := repo.FindSessionByUUID("round-trip")
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if len(got.Teams) != 3 {
		t.Fatalf("teams after append = %d, want 3", len(got.Teams))
	}
	if len(got.Gear) != 1 {
		t.Fatalf("gear after removal = %d, want 1", len(got.Gear))
	}
}
