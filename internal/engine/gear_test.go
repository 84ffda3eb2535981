package engine

import (
	"strings"
	"testing"

	"github.com/pdamaso/cityfall/internal/game"
)

func sessionWithGear() *game.Session {
	s := testSession()
	s.Gear = []game.Gear{{GearID: 1, Name: "holo mask", Arc: "infiltration"}}
	return s
}

func TestResolveGearAction_ParksDiceContinuation(t *testing.T) {
	en := testEngine(nil)
	s := sessionWithGear()

	report, req := en.ResolveGearAction(s, 0, 1, game.PlayerID)
	if report != nil {
		t.Fatalf("expected no report while the roll is pending, got %+v", report)
	}
	if req == nil {
		t.Fatalf("expected a dice request")
	}
	if req.SuccessChance != 70 {
		t.Fatalf("success chance = %d, want 100-30", req.SuccessChance)
	}
	if req.RenownCost != 2 {
		t.Fatalf("renown cost = %d, want 2", req.RenownCost)
	}
	if s.PendingDice == "" {
		t.Fatalf("continuation should be parked on the session")
	}
	if s.GearByID(1).Uses != 1 {
		t.Fatalf("gear use should be counted before the roll")
	}
}

func TestResolveGearAction_PendingDiceBlocksTurnAdvance(t *testing.T) {
	en := testEngine(nil)
	s := sessionWithGear()

	if _, req := en.ResolveGearAction(s, 0, 1, game.PlayerID); req == nil {
		t.Fatalf("expected a dice request")
	}
	if err := en.AdvanceTurn(s); err != ErrInteractionPending {
		t.Fatalf("AdvanceTurn with a pending roll: err=%v, want ErrInteractionPending", err)
	}
}

func TestResumeGearAction_CleanRollKeepsGear(t *testing.T) {
	en := testEngine(nil)
	s := sessionWithGear()
	en.ResolveGearAction(s, 0, 1, game.PlayerID)

	report := en.ResumeGearAction(s, 50, false)
	if s.PendingDice != "" {
		t.Fatalf("continuation should be consumed")
	}
	if s.GearByID(1) == nil {
		t.Fatalf("gear should survive a clean roll")
	}
	if !strings.Contains(report.TopText, "clean") {
		t.Fatalf("missing clean-roll text: %q", report.TopText)
	}
}

func TestResumeGearAction_SaveWithRenown(t *testing.T) {
	en := testEngine(nil)
	s := sessionWithGear()
	en.ResolveGearAction(s, 0, 1, game.PlayerID)

	en.ResumeGearAction(s, 90, true)
	if s.GearByID(1) == nil {
		t.Fatalf("gear should be saved when renown is spent")
	}
	if s.PlayerRenown != 3 {
		t.Fatalf("renown = %d, want 5-2", s.PlayerRenown)
	}
}

func TestResumeGearAction_FailedRollBurnsGear(t *testing.T) {
	en := testEngine(nil)
	s := sessionWithGear()
	en.ResolveGearAction(s, 0, 1, game.PlayerID)

	report := en.ResumeGearAction(s, 90, false)
	if s.GearByID(1) != nil {
		t.Fatalf("gear should burn on a failed roll with no save")
	}
	if !strings.Contains(report.TopText, "destroyed") {
		t.Fatalf("missing destruction text: %q", report.TopText)
	}
}

func TestResumeGearAction_CannotAffordSaveBurnsAnyway(t *testing.T) {
	en := testEngine(nil)
	s := sessionWithGear()
	en.ResolveGearAction(s, 0, 1, game.PlayerID)
	s.PlayerRenown = 1

	en.ResumeGearAction(s, 90, true)
	if s.GearByID(1) != nil {
		t.Fatalf("asking to save without the renown must still burn the gear")
	}
	if s.PlayerRenown != 1 {
		t.Fatalf("renown must not go negative, got %d", s.PlayerRenown)
	}
}

func TestResolveGearAction_AutoResolveSkipsDiceUI(t *testing.T) {
	en := testEngine(&scriptedRand{vals: []int{10}})
	s := sessionWithGear()
	s.PlayerRenown = 0
	s.AutoResolve = true

	report, req := en.ResolveGearAction(s, 0, 1, game.PlayerID)
	if req != nil {
		t.Fatalf("auto-resolve should not ask for a roll")
	}
	if report == nil {
		t.Fatalf("expected an immediate report")
	}
	if s.PendingDice != "" {
		t.Fatalf("nothing should be parked under auto-resolve")
	}
	// Rolled 10 against a 30% compromise chance: the gear burns inline.
	if s.GearByID(1) != nil {
		t.Fatalf("gear should have been destroyed inline")
	}
}

func TestResolveGearAction_AutoResolveSurvivingRoll(t *testing.T) {
	en := testEngine(&scriptedRand{vals: []int{60}})
	s := sessionWithGear()
	s.PlayerRenown = 0
	s.AutoResolve = true

	report, req := en.ResolveGearAction(s, 0, 1, game.PlayerID)
	if req != nil || report == nil {
		t.Fatalf("expected an immediate report")
	}
	if s.GearByID(1) == nil {
		t.Fatalf("gear should survive a 60 roll against 30%% compromise")
	}
}

func TestResolveGearAction_MissingGearProducesGlitch(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	report, req := en.ResolveGearAction(s, 0, 9, game.PlayerID)
	if req != nil {
		t.Fatalf("no dice request expected for missing gear")
	}
	if report == nil || !report.IsError {
		t.Fatalf("expected glitch report, got %+v", report)
	}
}

func TestResolveGearAction_MissingGearGlitchUsesSubjectSide(t *testing.T) {
	en := testEngine(nil)
	s := testSession()

	// Actor 2 is the Authority enforcer; with the gear lookup failing the
	// glitch must still land on the acting subject's side.
	report, _ := en.ResolveGearAction(s, 2, 9, 2)
	if report == nil || !report.IsError {
		t.Fatalf("expected glitch report, got %+v", report)
	}
	if report.Side != game.SideAuthority {
		t.Fatalf("glitch side = %s, want the acting actor's side", report.Side)
	}
}

func TestResumeGearAction_WithoutPendingIsGlitch(t *testing.T) {
	en := testEngine(nil)
	s := testSession()
	report := en.ResumeGearAction(s, 10, false)
	if !report.IsError {
		t.Fatalf("expected glitch report when no continuation is parked")
	}
}
