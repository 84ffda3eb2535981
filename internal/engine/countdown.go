package engine

import (
	"fmt"

	"github.com/pdamaso/cityfall/internal/game"
)

// CountdownOutcome describes what one countdown check did.
type CountdownOutcome int

const (
	CountdownIdle CountdownOutcome = iota
	CountdownArmedFloor
	CountdownArmedCeiling
	CountdownTicking
	CountdownFiredFloor
	CountdownFiredCeiling
)

// Countdown is the generic limit-countdown state machine shared by city
// loyalty and faction approval: when the bounded value reaches 0 or Max the
// timer is armed and ticks down once per turn; at zero the terminal event
// fires. Leaving the limit cancels the countdown (timer resets, not pauses).
type Countdown struct {
	Max    int
	Length int
}

// Advance runs one per-turn check of the countdown. The checked latch makes
// the check single-flight per turn: however many times the underlying value
// is mutated in one turn, only the first check advances the timer. The latch
// is reset at EndTurnLate by the turn controller.
//
// Arming and the first tick happen in the same check, so a countdown of
// length N fires on the Nth consecutive turn at the limit.
func (c Countdown) Advance(value int, timer *int, checked *bool) CountdownOutcome {
	if *checked {
		return CountdownIdle
	}
	*checked = true

	atFloor := value <= 0
	atCeiling := value >= c.Max
	if !atFloor && !atCeiling {
		*timer = 0
		return CountdownIdle
	}

	armed := false
	if *timer == 0 {
		*timer = c.Length
		armed = true
	}
	*timer--
	if *timer <= 0 {
		*timer = 0
		if atFloor {
			return CountdownFiredFloor
		}
		return CountdownFiredCeiling
	}
	if armed {
		if atFloor {
			return CountdownArmedFloor
		}
		return CountdownArmedCeiling
	}
	return CountdownTicking
}

// checkCityLoyalty runs the city loyalty countdown once per turn. Loyalty
// at the floor hands the city to the Resistance; pinned at the ceiling it
// hands the city to the Authority.
func (en *Engine) checkCityLoyalty(s *game.Session) {
	c := Countdown{Max: en.tuning.MaxCityLoyalty, Length: en.tuning.LoyaltyCountdown}
	switch c.Advance(s.CityLoyalty, &s.LoyaltyTimer, &s.LoyaltyChecked) {
	case CountdownArmedFloor:
		s.AddMessage(game.MessageLoyalty, game.SideResistance,
			fmt.Sprintf("City loyalty has collapsed. The Authority will lose the city in %d turns.", s.LoyaltyTimer+1))
	case CountdownArmedCeiling:
		s.AddMessage(game.MessageLoyalty, game.SideAuthority,
			fmt.Sprintf("City loyalty is absolute. The Resistance will be crushed in %d turns.", s.LoyaltyTimer+1))
	case CountdownTicking:
		s.AddMessage(game.MessageLoyalty, game.SideNone,
			fmt.Sprintf("City loyalty countdown: %d turns remain.", s.LoyaltyTimer))
	case CountdownFiredFloor:
		en.declareWin(s, game.SideResistance, "city_loyalty_floor",
			"The city has turned", "City loyalty reached zero and stayed there. The Resistance takes the streets.")
	case CountdownFiredCeiling:
		en.declareWin(s, game.SideAuthority, "city_loyalty_ceiling",
			"The city stands firm", "City loyalty held at maximum. The Resistance has been squeezed out.")
	}
}

// checkFactionLimit runs the faction approval countdown for one side. At
// either limit the faction loses patience and fires its player, which ends
// the session in favour of the opposing side.
func (en *Engine) checkFactionLimit(s *game.Session, f *game.Faction) {
	c := Countdown{Max: en.tuning.MaxFactionApproval, Length: en.tuning.FactionFireCountdown}
	switch c.Advance(f.Approval, &f.FireTimer, &f.Checked) {
	case CountdownArmedFloor, CountdownArmedCeiling:
		s.AddMessage(game.MessageFaction, f.Side,
			fmt.Sprintf("%s HQ has lost confidence. Dismissal in %d turns.", sideTitle(f.Side), f.FireTimer+1))
	case CountdownTicking:
		s.AddMessage(game.MessageFaction, f.Side,
			fmt.Sprintf("%s HQ dismissal countdown: %d turns remain.", sideTitle(f.Side), f.FireTimer))
	case CountdownFiredFloor, CountdownFiredCeiling:
		if f.Side == s.PlayerSide {
			en.declareWin(s, f.Side.Opponent(), "player_fired",
				"You've been recalled", sideTitle(f.Side)+" HQ has terminated your assignment.")
		} else {
			s.AddMessage(game.MessageFaction, f.Side,
				sideTitle(f.Side)+" HQ has replaced its field commander.")
		}
	}
}

// declareWin sets the one-shot terminal win state. Once any win state is
// set further declarations are ignored and the turn loop stops advancing.
func (en *Engine) declareWin(s *game.Session, side game.Side, reason, top, bottom string) {
	if s.WinSide != game.SideNone {
		return
	}
	s.WinSide = side
	s.WinReason = reason
	s.WinTop = top
	s.WinBottom = bottom
	s.Status = game.StatusFinished
	s.AddMessage(game.MessageTurn, side, top+": "+bottom)
}

func sideTitle(side game.Side) string {
	switch side {
	case game.SideAuthority:
		return "Authority"
	case game.SideResistance:
		return "Resistance"
	}
	return "Nobody"
}
