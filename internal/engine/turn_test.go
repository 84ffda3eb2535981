package engine

import (
	"testing"

	"github.com/pdamaso/cityfall/internal/game"
)

func TestAdvanceTurn_SingleTurnForHumanPlayer(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.ActionsUsed = 2

	if err := en.AdvanceTurn(s); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if s.Turn != 2 {
		t.Fatalf("turn = %d, want 2", s.Turn)
	}
	if s.ActionsUsed != 0 {
		t.Fatalf("action counter should reset, got %d", s.ActionsUsed)
	}
}

func TestAdvanceTurn_FinishedSessionRefuses(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	en.declareWin(s, game.SideAuthority, "test", "Over", "done")

	if err := en.AdvanceTurn(s); err != ErrSessionFinished {
		t.Fatalf("err = %v, want ErrSessionFinished", err)
	}
}

func TestAdvanceTurn_BothAILoopsUntilWin(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.AuthorityAI = true
	s.ResistanceAI = true
	s.CityLoyalty = 0 // floor countdown will fire after three turns

	if err := en.AdvanceTurn(s); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if s.WinSide != game.SideResistance {
		t.Fatalf("loop should run until the loyalty countdown fires, win=%s", s.WinSide)
	}
	if s.Turn != 4 {
		t.Fatalf("three internal turns expected, turn=%d", s.Turn)
	}
}

func TestAdvanceTurn_AutoRunConsumesScheduledTurns(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	en.SetAutoRun(s, 2)

	if err := en.AdvanceTurn(s); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if s.AutoRunTurns != 0 {
		t.Fatalf("autorun turns should be consumed, %d remain", s.AutoRunTurns)
	}
	if s.Turn <= 2 {
		t.Fatalf("autorun should have advanced extra turns, turn=%d", s.Turn)
	}
}

func TestAdvanceTurn_StartTurnCaptureFires(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.PlayerInvisibility = 0
	s.Teams = []game.Team{{TeamID: 1, Arc: game.ArcErasure, Side: game.SideAuthority, NodeID: 0, TurnsRemaining: 5}}

	if err := en.AdvanceTurn(s); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if s.PlayerStatus != game.ActorCaptured {
		t.Fatalf("player should be captured at dawn, status=%s", s.PlayerStatus)
	}
}

func TestAdvanceTurn_SettlesActingSideForThePlayer(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.AuthorityAI = true
	s.ActingSide = game.SideNone

	if err := en.AdvanceTurn(s); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if s.ActingSide != s.PlayerSide {
		t.Fatalf("acting side = %q, want the player's side once the turn opens for input", s.ActingSide)
	}
}

func TestRunSideAI_MarksActingSide(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.ActingSide = s.PlayerSide

	en.runSideAI(s, game.SideAuthority)
	if s.ActingSide != game.SideAuthority {
		t.Fatalf("acting side = %q, want authority during its AI phase", s.ActingSide)
	}
}

func TestUseAction_WoundedCollapsesBudget(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.AddPlayerCondition(game.ConditionWounded)

	en.UseAction(s, "test")
	if got := s.ActionsRemaining(); got != 0 {
		t.Fatalf("a wounded player's first action ends the turn budget, %d remain", got)
	}
}

func TestUseAction_OverrunIsNonBlocking(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	for i := 0; i < 3; i++ {
		en.UseAction(s, "test")
	}
	if s.ActionsUsed != 3 {
		t.Fatalf("used = %d, want 3", s.ActionsUsed)
	}
	if got := s.ActionsRemaining(); got != 0 {
		t.Fatalf("remaining display clamps at 0, got %d", got)
	}
}

func TestEndTurnLate_DecaysActionAdjusts(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.ActionAdjusts = []game.ActionAdjust{
		{Amount: -1, TurnsRemaining: 1, Reason: "wounded"},
		{Amount: 1, TurnsRemaining: 2, Reason: "stim"},
	}

	en.endTurnLate(s)
	if len(s.ActionAdjusts) != 1 {
		t.Fatalf("expired adjusts should drop, %d remain", len(s.ActionAdjusts))
	}
	if s.ActionAdjusts[0].Reason != "stim" || s.ActionAdjusts[0].TurnsRemaining != 1 {
		t.Fatalf("surviving adjust = %+v", s.ActionAdjusts[0])
	}
}

func TestStartTurnLate_SecurityAlertAutoCancels(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.SecurityState = game.SecurityAlert

	en.startTurnLate(s)
	if s.SecurityState != game.SecurityNormal {
		t.Fatalf("alert with no Erasure teams should lift, got %s", s.SecurityState)
	}

	s.SecurityState = game.SecurityAlert
	s.Teams = []game.Team{{TeamID: 1, Arc: game.ArcErasure, Side: game.SideAuthority, NodeID: 2, TurnsRemaining: 2}}
	en.startTurnLate(s)
	if s.SecurityState != game.SecurityAlert {
		t.Fatalf("alert should hold while an Erasure team is deployed")
	}
}

func TestAdvanceTurn_LatchesReopenEachTurn(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	s.LoyaltyChecked = true
	s.Factions[0].Checked = true

	if err := en.AdvanceTurn(s); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if s.LoyaltyChecked || s.Factions[0].Checked {
		t.Fatalf("countdown latches should reopen for the new turn")
	}
}
