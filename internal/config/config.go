package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdamaso/cityfall/internal/game"
	"github.com/pdamaso/cityfall/internal/keys"
)

type actionEntry struct {
	Arc     string        `json:"arc"`
	Name    string        `json:"name"`
	Tooltip string        `json:"tooltip"`
	Sprite  string        `json:"sprite"`
	Effects []game.Effect `json:"effects"`
}

type gearEntry struct {
	Name             string        `json:"name"`
	Arc              string        `json:"arc"`
	Tooltip          string        `json:"tooltip"`
	CompromiseChance int           `json:"compromise_chance"`
	RenownCost       int           `json:"renown_cost"`
	Effects          []game.Effect `json:"effects"`
}

type targetEntry struct {
	Name         string        `json:"name"`
	BaseChance   int           `json:"base_chance"`
	Good         []game.Effect `json:"good_effects"`
	Bad          []game.Effect `json:"bad_effects"`
	Ongoing      []game.Effect `json:"ongoing_effects"`
	OngoingTurns int           `json:"ongoing_turns"`
}

type teamEntry struct {
	Name     string    `json:"name"`
	Arc      string    `json:"arc"`
	Side     game.Side `json:"side"`
	Lifetime int       `json:"lifetime"`
}

type rawConfig struct {
	ActionList []actionEntry `json:"action_list"`
	GearList   []gearEntry   `json:"gear_list"`
	TargetList []targetEntry `json:"target_list"`
	TeamList   []teamEntry   `json:"team_list"`
	Tuning     *game.Tuning  `json:"tuning"`
	Server     *struct {
		Address              string `json:"address"`
		ActionTimeoutSeconds int    `json:"action_timeout_seconds"`
	} `json:"server"`
}

// LoadedConfig contains the content catalog, the server address to bind to
// and the per-turn action deadline for human players.
type LoadedConfig struct {
	Catalog       *game.Catalog
	ServerAddress string
	ActionTimeout time.Duration
}

var validOutcomes = map[game.EffectOutcome]bool{
	game.OutcomeNodeSecurity:    true,
	game.OutcomeNodeStability:   true,
	game.OutcomeNodeSupport:     true,
	game.OutcomeRebelCause:      true,
	game.OutcomeRenown:          true,
	game.OutcomeInvisibility:    true,
	game.OutcomeCityLoyalty:     true,
	game.OutcomeFactionApproval: true,
}

var validOperators = map[game.EffectOperator]bool{
	game.OperatorAdd:      true,
	game.OperatorSubtract: true,
	game.OperatorEqual:    true,
}

// LoadConfig reads the configuration file at path and builds the content
// catalog. It requires the snake_case keys `action_list`, `team_list` and
// `tuning`; gear and targets may be empty for minimal installs.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.ActionList) == 0 {
		return nil, fmt.Errorf("config file %s: action_list is empty (provide 'action_list' array)", path)
	}
	if rc.Tuning == nil {
		return nil, fmt.Errorf("config file %s: missing 'tuning' block", path)
	}
	if err := validateTuning(path, rc.Tuning); err != nil {
		return nil, err
	}

	cat := &game.Catalog{
		Actions: make(map[string]game.ActionDef, len(rc.ActionList)),
		Gear:    make(map[string]game.GearDef, len(rc.GearList)),
		Targets: make(map[string]game.TargetProfile, len(rc.TargetList)),
		Teams:   make(map[string]game.TeamDef, len(rc.TeamList)),
		Tuning:  *rc.Tuning,
	}

	for _, a := range rc.ActionList {
		if a.Arc == "" {
			return nil, fmt.Errorf("config file %s: action entry missing 'arc'", path)
		}
		key := keys.ContentKey(a.Arc)
		if _, exists := cat.Actions[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate action arc '%s'", path, a.Arc)
		}
		if err := validateEffects(path, "action "+a.Arc, a.Effects, true); err != nil {
			return nil, err
		}
		cat.Actions[key] = game.ActionDef{Name: a.Name, Tooltip: a.Tooltip, Sprite: a.Sprite, Effects: a.Effects}
	}

	for _, g := range rc.GearList {
		if g.Name == "" {
			return nil, fmt.Errorf("config file %s: gear entry missing 'name'", path)
		}
		if g.CompromiseChance < 0 || g.CompromiseChance > 100 {
			return nil, fmt.Errorf("config file %s: gear '%s' compromise_chance out of [0,100]", path, g.Name)
		}
		key := keys.ContentKey(g.Name)
		if _, exists := cat.Gear[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate gear name '%s'", path, g.Name)
		}
		if err := validateEffects(path, "gear "+g.Name, g.Effects, true); err != nil {
			return nil, err
		}
		cat.Gear[key] = game.GearDef{
			Name: g.Name, Arc: g.Arc, Tooltip: g.Tooltip,
			CompromiseChance: g.CompromiseChance, RenownCost: g.RenownCost, Effects: g.Effects,
		}
	}

	for _, t := range rc.TargetList {
		if t.Name == "" {
			return nil, fmt.Errorf("config file %s: target entry missing 'name'", path)
		}
		key := keys.ContentKey(t.Name)
		if _, exists := cat.Targets[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate target name '%s'", path, t.Name)
		}
		if err := validateEffects(path, "target "+t.Name+" good", t.Good, true); err != nil {
			return nil, err
		}
		if err := validateEffects(path, "target "+t.Name+" bad", t.Bad, false); err != nil {
			return nil, err
		}
		if err := validateEffects(path, "target "+t.Name+" ongoing", t.Ongoing, false); err != nil {
			return nil, err
		}
		if len(t.Ongoing) > 0 && t.OngoingTurns <= 0 {
			return nil, fmt.Errorf("config file %s: target '%s' has ongoing effects but no 'ongoing_turns'", path, t.Name)
		}
		cat.Targets[key] = game.TargetProfile{
			Name: t.Name, BaseChance: t.BaseChance,
			Good: t.Good, Bad: t.Bad, Ongoing: t.Ongoing, OngoingTurns: t.OngoingTurns,
		}
	}

	if len(rc.TeamList) == 0 {
		return nil, fmt.Errorf("config file %s: team_list is empty (provide 'team_list' array)", path)
	}
	erasure := false
	for _, t := range rc.TeamList {
		if t.Arc == "" {
			return nil, fmt.Errorf("config file %s: team entry missing 'arc'", path)
		}
		if t.Side != game.SideAuthority && t.Side != game.SideResistance {
			return nil, fmt.Errorf("config file %s: team '%s' has invalid side '%s'", path, t.Name, t.Side)
		}
		if t.Lifetime <= 0 {
			return nil, fmt.Errorf("config file %s: team '%s' needs a positive 'lifetime'", path, t.Name)
		}
		key := keys.ContentKey(t.Arc)
		if _, exists := cat.Teams[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate team arc '%s'", path, t.Arc)
		}
		cat.Teams[key] = game.TeamDef{Name: t.Name, Arc: t.Arc, Side: t.Side, Lifetime: t.Lifetime}
		if t.Arc == game.ArcErasure {
			erasure = true
		}
	}
	// Captures are impossible without an Erasure archetype; a catalog
	// missing it is a content error, not a playstyle.
	if !erasure {
		return nil, fmt.Errorf("config file %s: team_list must include the '%s' archetype", path, game.ArcErasure)
	}

	addr := ":8080"
	timeout := 120 * time.Second
	if rc.Server != nil {
		if rc.Server.Address != "" {
			addr = rc.Server.Address
		}
		if rc.Server.ActionTimeoutSeconds > 0 {
			timeout = time.Duration(rc.Server.ActionTimeoutSeconds) * time.Second
		}
	}
	return &LoadedConfig{Catalog: cat, ServerAddress: addr, ActionTimeout: timeout}, nil
}

func validateEffects(path, owner string, effects []game.Effect, required bool) error {
	if required && len(effects) == 0 {
		return fmt.Errorf("config file %s: %s has no effects", path, owner)
	}
	for _, e := range effects {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("config file %s: %s has an effect missing 'name'", path, owner)
		}
		if !validOutcomes[e.Outcome] {
			return fmt.Errorf("config file %s: %s effect '%s' has unknown outcome '%s'", path, owner, e.Name, e.Outcome)
		}
		if !validOperators[e.Operator] {
			return fmt.Errorf("config file %s: %s effect '%s' has unknown operator '%s'", path, owner, e.Name, e.Operator)
		}
	}
	return nil
}

func validateTuning(path string, t *game.Tuning) error {
	required := map[string]int{
		"max_stat":               t.MaxStat,
		"max_invisibility":       t.MaxInvisibility,
		"max_renown":             t.MaxRenown,
		"max_city_loyalty":       t.MaxCityLoyalty,
		"loyalty_countdown":      t.LoyaltyCountdown,
		"max_faction_approval":   t.MaxFactionApproval,
		"faction_fire_countdown": t.FactionFireCountdown,
		"capture_timer":          t.CaptureTimer,
		"actions_per_turn":       t.ActionsPerTurn,
	}
	for name, v := range required {
		if v <= 0 {
			return fmt.Errorf("config file %s: tuning.%s must be positive", path, name)
		}
	}
	if t.TraitorChancePerCapture < 0 || t.TraitorChancePerCapture > 100 {
		return fmt.Errorf("config file %s: tuning.traitor_chance_per_capture out of [0,100]", path)
	}
	return nil
}
