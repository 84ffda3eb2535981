package game

import "github.com/pdamaso/cityfall/internal/keys"

// Content-side types. These are read-only game content loaded from the
// cityfall_config.json catalog: the engine never mutates them during
// resolution (effects are resolved against copies of their magnitudes).

// EffectOutcome is the kind of state an effect mutates.
type EffectOutcome string

const (
	OutcomeNodeSecurity    EffectOutcome = "node_security"
	OutcomeNodeStability   EffectOutcome = "node_stability"
	OutcomeNodeSupport     EffectOutcome = "node_support"
	OutcomeRebelCause      EffectOutcome = "rebel_cause"
	OutcomeRenown          EffectOutcome = "renown"
	OutcomeInvisibility    EffectOutcome = "invisibility"
	OutcomeCityLoyalty     EffectOutcome = "city_loyalty"
	OutcomeFactionApproval EffectOutcome = "faction_approval"
)

// EffectOperator is how the magnitude is applied to the target value.
type EffectOperator string

const (
	OperatorAdd      EffectOperator = "add"
	OperatorSubtract EffectOperator = "subtract"
	OperatorEqual    EffectOperator = "equal"
)

// Criterion check names. A criterion gates whether an effect applies; an
// unmet criterion skips the effect without treating it as an error.
const (
	CriterionNodeSecurityMax  = "node_security_max"
	CriterionNodeSecurityMin  = "node_security_min"
	CriterionNodeStabilityMin = "node_stability_min"
	CriterionNodeSupportMin   = "node_support_min"
	CriterionSecurityStateIs  = "security_state_is"
	CriterionActorActive      = "actor_active"
)

// Criterion is one applicability gate on an effect.
type Criterion struct {
	Check     string        `json:"check"`
	Threshold int           `json:"threshold"`
	State     SecurityState `json:"state,omitempty"`
}

// Effect is an immutable, data-defined instruction: adjust a node stat, the
// rebel cause, renown and so on. TopText may contain the token {value} which
// is substituted with the effect magnitude at resolution time.
type Effect struct {
	Name         string         `json:"name"`
	Outcome      EffectOutcome  `json:"outcome"`
	Operator     EffectOperator `json:"operator"`
	Value        int            `json:"value"`
	OngoingTurns int            `json:"ongoing_turns"`
	Criteria     []Criterion    `json:"criteria,omitempty"`
	TopText      string         `json:"top_text"`
	// IsAction marks effects whose application consumes an action point.
	// A resolved action consumes a point when ANY of its effects has this
	// set (OR semantics).
	IsAction bool `json:"is_action"`
}

// ActionDef is a named, ordered bundle of effects available to an actor
// archetype. Every action must define at least one effect.
type ActionDef struct {
	Name    string   `json:"name"`
	Tooltip string   `json:"tooltip"`
	Sprite  string   `json:"sprite"`
	Effects []Effect `json:"effects"`
}

// GearDef is the content definition of a gear item: an effect bundle plus
// the compromise mechanics (chance the gear is burned by use, and the renown
// cost of saving it on a failed roll).
type GearDef struct {
	Name             string   `json:"name"`
	Arc              string   `json:"arc"`
	Tooltip          string   `json:"tooltip"`
	CompromiseChance int      `json:"compromise_chance"`
	RenownCost       int      `json:"renown_cost"`
	Effects          []Effect `json:"effects"`
}

// TargetProfile is the content definition of a mission objective: the three
// effect lists applied on a successful or failed attempt, plus the lifetime
// of the ongoing link the target leaves behind.
type TargetProfile struct {
	Name         string   `json:"name"`
	BaseChance   int      `json:"base_chance"`
	Good         []Effect `json:"good_effects"`
	Bad          []Effect `json:"bad_effects"`
	Ongoing      []Effect `json:"ongoing_effects"`
	OngoingTurns int      `json:"ongoing_turns"`
}

// TeamDef is the content definition of a deployable team archetype.
type TeamDef struct {
	Name     string `json:"name"`
	Arc      string `json:"arc"`
	Side     Side   `json:"side"`
	Lifetime int    `json:"lifetime"`
}

// Catalog bundles all loaded content: archetype actions, gear, target
// profiles, team archetypes and the tuning knobs. Built once at startup by
// the config loader and shared read-only with the engine.
type Catalog struct {
	Actions map[string]ActionDef
	Gear    map[string]GearDef
	Targets map[string]TargetProfile
	Teams   map[string]TeamDef
	Tuning  Tuning
}

// ActionFor returns the action bundle for an actor archetype, or nil.
// Lookups go through the canonical content key so stored references survive
// casing or spacing changes in the catalog.
func (c *Catalog) ActionFor(arc string) *ActionDef {
	if a, ok := c.Actions[keys.ContentKey(arc)]; ok {
		return &a
	}
	return nil
}

// GearNamed returns the gear definition for the given content name, or nil.
func (c *Catalog) GearNamed(name string) *GearDef {
	if g, ok := c.Gear[keys.ContentKey(name)]; ok {
		return &g
	}
	return nil
}

// TargetProfileNamed returns the target profile for the given name, or nil.
func (c *Catalog) TargetProfileNamed(name string) *TargetProfile {
	if t, ok := c.Targets[keys.ContentKey(name)]; ok {
		return &t
	}
	return nil
}

// TeamNamed returns the team archetype definition for the given arc, or nil.
func (c *Catalog) TeamNamed(arc string) *TeamDef {
	if t, ok := c.Teams[keys.ContentKey(arc)]; ok {
		return &t
	}
	return nil
}

// TeamsForSide returns the deployable team archetypes for one side.
func (c *Catalog) TeamsForSide(side Side) []TeamDef {
	var out []TeamDef
	for _, t := range c.Teams {
		if t.Side == side {
			out = append(out, t)
		}
	}
	return out
}

// Tuning groups the numeric knobs of the simulation. All values come from
// the config file; zero values are rejected at load for required knobs.
type Tuning struct {
	MaxStat                 int `json:"max_stat"`
	MaxInvisibility         int `json:"max_invisibility"`
	MaxRenown               int `json:"max_renown"`
	MaxCityLoyalty          int `json:"max_city_loyalty"`
	LoyaltyCountdown        int `json:"loyalty_countdown"`
	MaxFactionApproval      int `json:"max_faction_approval"`
	FactionFireCountdown    int `json:"faction_fire_countdown"`
	TraitorChancePerCapture int `json:"traitor_chance_per_capture"`
	CaptureLoyaltyDelta     int `json:"capture_loyalty_delta"`
	CaptureTimer            int `json:"capture_timer"`
	ReleaseInvisibility     int `json:"release_invisibility"`
	ActionsPerTurn          int `json:"actions_per_turn"`
}
