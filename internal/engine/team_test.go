package engine

import (
	"testing"

	"github.com/pdamaso/cityfall/internal/game"
)

func TestResolveTeamAction_EmptyArcReturnsPicker(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	report, picker := en.ResolveTeamAction(s, TeamDetails{NodeID: 1, Side: game.SideAuthority})
	if report != nil {
		t.Fatalf("expected no report, got %+v", report)
	}
	if picker == nil || picker.NodeID != 1 {
		t.Fatalf("expected picker for node 1, got %+v", picker)
	}
	if len(picker.Choices) != 2 {
		t.Fatalf("authority should have 2 team choices, got %d", len(picker.Choices))
	}
}

func TestResolveTeamAction_InsertsTeamWithLifetime(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	report, picker := en.ResolveTeamAction(s, TeamDetails{NodeID: 1, Arc: game.ArcErasure, Side: game.SideAuthority})
	if picker != nil {
		t.Fatalf("unexpected picker: %+v", picker)
	}
	if !report.IsAction {
		t.Fatalf("team insertion consumes an action")
	}
	if len(s.Teams) != 1 {
		t.Fatalf("expected 1 team, got %d", len(s.Teams))
	}
	team := s.Teams[0]
	if team.Arc != game.ArcErasure || team.NodeID != 1 || team.TurnsRemaining != 3 {
		t.Fatalf("team = %+v", team)
	}
}

func TestResolveTeamAction_TeamIDsIncrement(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	en.ResolveTeamAction(s, TeamDetails{NodeID: 0, Arc: "rapid", Side: game.SideAuthority})
	en.ResolveTeamAction(s, TeamDetails{NodeID: 1, Arc: game.ArcErasure, Side: game.SideAuthority})
	if s.Teams[0].TeamID == s.Teams[1].TeamID {
		t.Fatalf("team ids must be unique: %d / %d", s.Teams[0].TeamID, s.Teams[1].TeamID)
	}
}

func TestResolveTeamAction_UnknownArcIsGlitch(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	report, _ := en.ResolveTeamAction(s, TeamDetails{NodeID: 0, Arc: "nonsense", Side: game.SideAuthority})
	if report == nil || !report.IsError {
		t.Fatalf("expected glitch report, got %+v", report)
	}
	if len(s.Teams) != 0 {
		t.Fatalf("no team should be inserted")
	}
}

func TestTickTeams_WithdrawsAtZero(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.Teams = []game.Team{
		{TeamID: 1, Arc: game.ArcErasure, Side: game.SideAuthority, NodeID: 0, TurnsRemaining: 1},
		{TeamID: 2, Arc: "rapid", Side: game.SideAuthority, NodeID: 1, TurnsRemaining: 2},
	}

	en.tickTeams(s)
	if len(s.Teams) != 1 {
		t.Fatalf("expired team should withdraw, %d remain", len(s.Teams))
	}
	if s.Teams[0].TeamID != 2 || s.Teams[0].TurnsRemaining != 1 {
		t.Fatalf("surviving team = %+v", s.Teams[0])
	}
}

func TestTickTeams_WithdrawalMessageUsesDisplayName(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.Teams = []game.Team{
		{TeamID: 1, Arc: game.ArcErasure, Side: game.SideAuthority, NodeID: 0, TurnsRemaining: 1},
	}

	en.tickTeams(s)
	if len(s.Messages) == 0 {
		t.Fatalf("withdrawal should append a message-log entry")
	}
	got := s.Messages[len(s.Messages)-1].Text
	want := "Erasure team withdrawn from district 0"
	if got != want {
		t.Fatalf("withdrawal message = %q, want %q", got, want)
	}
}
