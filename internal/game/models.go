package game

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Sentinel identifiers used across the engine. Node and actor ids are dense
// non-negative integers; -1 conventionally means "absent/none". The player is
// not an Actor row and is addressed with the reserved id 999 in capture-check
// contexts.
const (
	NoNode   = -1
	NoTarget = -1
	PlayerID = 999
)

// Side identifies which faction an actor, team or win state belongs to.
type Side string

const (
	SideNone       Side = ""
	SideAuthority  Side = "authority"
	SideResistance Side = "resistance"
)

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	switch s {
	case SideAuthority:
		return SideResistance
	case SideResistance:
		return SideAuthority
	}
	return SideNone
}

// ActorStatus is the primary lifecycle state of an actor.
type ActorStatus string

const (
	ActorActive      ActorStatus = "active"
	ActorCaptured    ActorStatus = "captured"
	ActorInactive    ActorStatus = "inactive"
	ActorRecruitPool ActorStatus = "recruit_pool"
)

// SecurityState is the authority-wide posture. It affects capture thresholds
// and other Resistance penalties.
type SecurityState string

const (
	SecurityNormal    SecurityState = "normal"
	SecurityAPB       SecurityState = "apb"
	SecurityAlert     SecurityState = "security_alert"
	SecurityCrackdown SecurityState = "surveillance_crackdown"
)

// TargetStatus tracks a mission objective through its lifecycle pools.
type TargetStatus string

const (
	TargetDormant   TargetStatus = "dormant"
	TargetLive      TargetStatus = "live"
	TargetCompleted TargetStatus = "completed"
	TargetContained TargetStatus = "contained"
)

// Session status values.
const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// ArcErasure is the team archetype capable of executing captures.
const ArcErasure = "erasure"

// Condition names attached to actors or the player.
const (
	ConditionQuestionable = "questionable"
	ConditionWounded      = "wounded"
)

// Node is a city district: the basic unit of the map graph. The three
// district stats are always clamped to [0, max stat] by the effect resolver.
type Node struct {
	gorm.Model
	SessionID uint   `json:"-"`
	NodeID    int    `json:"node_id"`
	Arc       string `json:"arc"`
	Security  int    `json:"security"`
	Stability int    `json:"stability"`
	Support   int    `json:"support"`
	// TargetID is the id of the target bound to this node, or NoTarget.
	TargetID int `json:"target_id"`
	// Adjacent stores the ids of directly connected nodes as a CSV list
	// (edges are supplied by the map generator at session creation).
	Adjacent string `json:"-" gorm:"column:adjacent"`
}

func (Node) TableName() string { return "session_nodes" }

// AdjacentIDs decodes the CSV adjacency column.
func (n *Node) AdjacentIDs() []int { return decodeIntCSV(n.Adjacent) }

// SetAdjacentIDs encodes the adjacency list into the CSV column.
func (n *Node) SetAdjacentIDs(ids []int) { n.Adjacent = encodeIntCSV(ids) }

// Actor is an NPC belonging to a side. The player is not an Actor row; player
// state lives on the Session.
type Actor struct {
	gorm.Model
	SessionID uint   `json:"-"`
	ActorID   int    `json:"actor_id"`
	Name      string `json:"name"`
	Arc       string `json:"arc"`
	Side      Side   `json:"side"`
	NodeID    int    `json:"node_id"`
	Renown    int    `json:"renown"`
	// Invisibility applies to Resistance actors only, range [0, max].
	Invisibility int         `json:"invisibility"`
	Status       ActorStatus `json:"status"`
	// InactiveReason mirrors Status for tooltip display and must stay
	// consistent with it (empty whenever Status is active).
	InactiveReason string `json:"inactive_reason"`
	// NodeCaptured is the node where the actor is held, or NoNode.
	NodeCaptured  int    `json:"node_captured"`
	CaptureTimer  int    `json:"capture_timer"`
	TimesCaptured int    `json:"times_captured"`
	Traitor       bool   `json:"traitor"`
	Conditions    string `json:"-" gorm:"column:conditions"`
	// Secrets records what a turned actor has given up, as a CSV list.
	Secrets string `json:"-" gorm:"column:secrets"`
}

func (Actor) TableName() string { return "session_actors" }

// HasCondition reports whether the named condition is present.
func (a *Actor) HasCondition(name string) bool { return csvContains(a.Conditions, name) }

// AddCondition appends the named condition if not already present.
func (a *Actor) AddCondition(name string) { a.Conditions = csvAdd(a.Conditions, name) }

// ConditionList decodes the CSV conditions column.
func (a *Actor) ConditionList() []string { return decodeCSV(a.Conditions) }

// AddSecret records a disclosed secret if not already present.
func (a *Actor) AddSecret(name string) { a.Secrets = csvAdd(a.Secrets, name) }

// SecretList decodes the CSV secrets column.
func (a *Actor) SecretList() []string { return decodeCSV(a.Secrets) }

// Team is a group placed at a node by either side. Erasure-archetype teams
// are the ones capable of executing captures.
type Team struct {
	gorm.Model
	SessionID      uint   `json:"-"`
	TeamID         int    `json:"team_id"`
	Arc            string `json:"arc"`
	Side           Side   `json:"side"`
	NodeID         int    `json:"node_id"`
	TurnsRemaining int    `json:"turns_remaining"`
}

func (Team) TableName() string { return "session_teams" }

// Gear is an item held by the player. Gear actions carry a compromise chance
// and a renown cost to save the gear on a failed roll (both defined in the
// content catalog under the gear's name).
type Gear struct {
	gorm.Model
	SessionID uint   `json:"-"`
	GearID    int    `json:"gear_id"`
	Name      string `json:"name"`
	Arc       string `json:"arc"`
	Uses      int    `json:"uses"`
}

func (Gear) TableName() string { return "session_gear" }

// Target is a mission objective bound to a node, moving through the pools
// dormant -> live -> completed -> contained. Its effect lists live in the
// content catalog under the named profile.
type Target struct {
	gorm.Model
	SessionID uint         `json:"-"`
	TargetID  int          `json:"target_id"`
	NodeID    int          `json:"node_id"`
	Profile   string       `json:"profile"`
	Status    TargetStatus `json:"status"`
	// ActivationTurn is the turn a dormant objective goes live; values at
	// or below 1 mean live from the start.
	ActivationTurn int `json:"activation_turn"`
	// OngoingID links the target's ongoing effect, or 0 when none.
	OngoingID int `json:"ongoing_id"`
}

func (Target) TableName() string { return "session_targets" }

// OngoingEffect tracks a persistent effect across turns, linked by id.
type OngoingEffect struct {
	gorm.Model
	SessionID      uint           `json:"-"`
	LinkID         int            `json:"link_id"`
	Source         string         `json:"source"`
	RemainingTurns int            `json:"remaining_turns"`
	Outcome        EffectOutcome  `json:"outcome"`
	Operator       EffectOperator `json:"operator"`
	Value          int            `json:"value"`
	NodeID         int            `json:"node_id"`
	Text           string         `json:"text"`
}

func (OngoingEffect) TableName() string { return "session_ongoing_effects" }

// MessageEntry is one append-only message-log row for later UI review.
// Entries are never mutated or removed.
type MessageEntry struct {
	gorm.Model
	SessionID uint   `json:"-"`
	Turn      int    `json:"turn"`
	Side      Side   `json:"side"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
}

func (MessageEntry) TableName() string { return "session_messages" }

// Message kinds.
const (
	MessageCapture = "capture"
	MessageRelease = "release"
	MessageTarget  = "target"
	MessageGear    = "gear"
	MessageLoyalty = "loyalty"
	MessageFaction = "faction"
	MessageTurn    = "turn"
	MessageError   = "error"
)

// ActionAdjust is a temporary modifier to the per-turn action budget. Each
// adjustment decays at EndTurnLate and is removed when it reaches zero turns.
type ActionAdjust struct {
	gorm.Model
	SessionID      uint   `json:"-"`
	Amount         int    `json:"amount"`
	TurnsRemaining int    `json:"turns_remaining"`
	Reason         string `json:"reason"`
}

func (ActionAdjust) TableName() string { return "session_action_adjusts" }

// Faction holds per-side HQ approval and the fire-player countdown.
type Faction struct {
	gorm.Model
	SessionID uint `json:"-"`
	Side      Side `json:"side"`
	Approval  int  `json:"approval"`
	FireTimer int  `json:"fire_timer"`
	// Checked is the once-per-turn latch for the approval countdown; it is
	// reset at EndTurnLate.
	Checked bool `json:"-"`
}

func (Faction) TableName() string { return "session_factions" }

// DiceContext is the pass-through payload carried across the dice-roll
// continuation: enough context to resume a paused gear action after the
// external roll completes.
type DiceContext struct {
	NodeID        int    `json:"node_id"`
	GearID        int    `json:"gear_id"`
	ActorID       int    `json:"actor_id"`
	SuccessChance int    `json:"success_chance"`
	RenownCost    int    `json:"renown_cost"`
	IsAction      bool   `json:"is_action"`
	TopText       string `json:"top_text"`
	BottomText    string `json:"bottom_text"`
}

// Session is the world aggregate: one game in progress. All engine operations
// mutate a loaded Session in memory; the storage layer persists the whole
// aggregate after each public operation.
type Session struct {
	gorm.Model
	SessionUUID string `json:"session_uuid" gorm:"index"`
	Name        string `json:"name" gorm:"size:32"`
	JoinCode    string `json:"join_code" gorm:"unique"`
	OwnerEmail  string `json:"owner_email"`
	Status      string `json:"status"`

	// Turn state. Turn is monotonic and never decreases. ActingSide is
	// whose actions are running right now: an AI side while its end-turn
	// processing executes, the player's side once the turn opens for input.
	Turn        int  `json:"turn"`
	ActingSide  Side `json:"acting_side"`
	ActionsUsed int  `json:"actions_used"`
	ActionsBase int  `json:"actions_base"`

	SecurityState SecurityState `json:"security_state"`

	// Win state is terminal and one-shot: once set the turn loop stops.
	WinSide   Side   `json:"win_side"`
	WinReason string `json:"win_reason"`
	WinTop    string `json:"win_top"`
	WinBottom string `json:"win_bottom"`

	// City loyalty countdown (bounded [0, max]; timer armed at the limits).
	CityLoyalty    int  `json:"city_loyalty"`
	LoyaltyTimer   int  `json:"loyalty_timer"`
	LoyaltyChecked bool `json:"-"`

	// Player block. The player belongs to PlayerSide and is addressed by
	// the reserved PlayerID sentinel in capture contexts.
	PlayerName          string      `json:"player_name"`
	PlayerEmail         string      `json:"player_email"`
	PlayerSide          Side        `json:"player_side"`
	PlayerArc           string      `json:"player_arc"`
	PlayerNodeID        int         `json:"player_node_id"`
	PlayerRenown        int         `json:"player_renown"`
	PlayerInvisibility  int         `json:"player_invisibility"`
	PlayerStatus        ActorStatus `json:"player_status"`
	PlayerNodeCaptured  int         `json:"player_node_captured"`
	PlayerCaptureTimer  int         `json:"player_capture_timer"`
	PlayerTimesCaptured int         `json:"player_times_captured"`
	PlayerConditions    string      `json:"-" gorm:"column:player_conditions"`

	// AutoResolve bypasses the dice UI when the player cannot afford the
	// renown cost of saving compromised gear.
	AutoResolve bool `json:"auto_resolve"`

	// PendingDice is the single-slot continuation gate: a JSON-encoded
	// DiceContext while a gear action is paused on an external dice roll,
	// empty otherwise. Turn advancement refuses to run while it is set.
	PendingDice string `json:"-" gorm:"column:pending_dice"`

	// AI control flags: when a side is AI-controlled its end-of-turn
	// processing runs without human interaction.
	AuthorityAI  bool `json:"authority_ai"`
	ResistanceAI bool `json:"resistance_ai"`

	// AutoRunTurns makes the turn controller execute N turns in a tight
	// loop without pausing for presentation.
	AutoRunTurns int `json:"auto_run_turns"`

	Nodes         []Node          `json:"nodes"`
	Actors        []Actor         `json:"actors"`
	Teams         []Team          `json:"teams"`
	Gear          []Gear          `json:"gear"`
	Targets       []Target        `json:"targets"`
	Factions      []Faction       `json:"factions"`
	ActionAdjusts []ActionAdjust  `json:"action_adjusts"`
	Ongoing       []OngoingEffect `json:"ongoing"`
	Messages      []MessageEntry  `json:"-"`

	// ActionDeadline bounds how long the acting human may idle before the
	// background scanner ends the turn on their behalf.
	ActionDeadline time.Time `json:"action_deadline"`
	StatsCounted   bool      `json:"-"`
}

func (Session) TableName() string { return "sessions" }

// NodeByID returns the node with the given dense id, or nil.
func (s *Session) NodeByID(id int) *Node {
	for i := range s.Nodes {
		if s.Nodes[i].NodeID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// ActorByID returns the actor with the given id, or nil. The reserved
// PlayerID sentinel is not an actor and always returns nil here.
func (s *Session) ActorByID(id int) *Actor {
	for i := range s.Actors {
		if s.Actors[i].ActorID == id {
			return &s.Actors[i]
		}
	}
	return nil
}

// TeamsAt returns the teams currently present at the given node.
func (s *Session) TeamsAt(nodeID int) []*Team {
	var out []*Team
	for i := range s.Teams {
		if s.Teams[i].NodeID == nodeID {
			out = append(out, &s.Teams[i])
		}
	}
	return out
}

// TargetByID returns the target with the given id, or nil.
func (s *Session) TargetByID(id int) *Target {
	for i := range s.Targets {
		if s.Targets[i].TargetID == id {
			return &s.Targets[i]
		}
	}
	return nil
}

// GearByID returns the player's gear item with the given id, or nil.
func (s *Session) GearByID(id int) *Gear {
	for i := range s.Gear {
		if s.Gear[i].GearID == id {
			return &s.Gear[i]
		}
	}
	return nil
}

// FactionFor returns the faction record for the given side, or nil.
func (s *Session) FactionFor(side Side) *Faction {
	for i := range s.Factions {
		if s.Factions[i].Side == side {
			return &s.Factions[i]
		}
	}
	return nil
}

// ActionsTotal is the per-turn budget: base plus temporary adjustments,
// floored at zero.
func (s *Session) ActionsTotal() int {
	total := s.ActionsBase
	for i := range s.ActionAdjusts {
		total += s.ActionAdjusts[i].Amount
	}
	if total < 0 {
		total = 0
	}
	return total
}

// ActionsRemaining is the display count of actions left this turn, clamped
// at zero (overuse is a logged defect, not a blocking error).
func (s *Session) ActionsRemaining() int {
	r := s.ActionsTotal() - s.ActionsUsed
	if r < 0 {
		r = 0
	}
	return r
}

// AddMessage appends one immutable entry to the session message log.
func (s *Session) AddMessage(kind string, side Side, text string) {
	s.Messages = append(s.Messages, MessageEntry{Turn: s.Turn, Side: side, Kind: kind, Text: text})
}

// PlayerHasCondition reports whether the player carries the named condition.
func (s *Session) PlayerHasCondition(name string) bool {
	return csvContains(s.PlayerConditions, name)
}

// AddPlayerCondition appends the named condition to the player if absent.
func (s *Session) AddPlayerCondition(name string) {
	s.PlayerConditions = csvAdd(s.PlayerConditions, name)
}

// SetPendingDice stores the dice continuation payload, closing the gate.
func (s *Session) SetPendingDice(dc *DiceContext) error {
	b, err := json.Marshal(dc)
	if err != nil {
		return err
	}
	s.PendingDice = string(b)
	return nil
}

// PendingDiceContext decodes the stored continuation payload, if any.
func (s *Session) PendingDiceContext() (*DiceContext, bool) {
	if s.PendingDice == "" {
		return nil, false
	}
	var dc DiceContext
	if err := json.Unmarshal([]byte(s.PendingDice), &dc); err != nil {
		return nil, false
	}
	return &dc, true
}

// ClearPendingDice opens the continuation gate.
func (s *Session) ClearPendingDice() { s.PendingDice = "" }

// User stores unique player identity and aggregate stats across sessions.
type User struct {
	gorm.Model
	PlayerUUID     string `gorm:"index"`
	PlayerName     string
	Email          string `gorm:"uniqueIndex"`
	SessionsPlayed int
	Wins           int
	Resignations   int
}

func (User) TableName() string { return "player_profiles" }

// --- CSV helpers -------------------------------------------------------

func encodeIntCSV(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func decodeIntCSV(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func decodeCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func csvContains(s, name string) bool {
	for _, c := range decodeCSV(s) {
		if c == name {
			return true
		}
	}
	return false
}

func csvAdd(s, name string) string {
	if csvContains(s, name) {
		return s
	}
	if s == "" {
		return name
	}
	return s + "," + name
}
