package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validConfig = `{
  "action_list": [
    {
      "arc": "Agitator",
      "name": "Stir Unrest",
      "effects": [
        {"name": "rally", "outcome": "node_support", "operator": "add", "value": 1, "is_action": true}
      ]
    }
  ],
  "gear_list": [
    {
      "name": "Holo Mask",
      "arc": "infiltration",
      "compromise_chance": 30,
      "renown_cost": 2,
      "effects": [
        {"name": "slip past", "outcome": "invisibility", "operator": "add", "value": 1, "is_action": true}
      ]
    }
  ],
  "target_list": [
    {
      "name": "Transit Hub",
      "base_chance": 50,
      "good_effects": [
        {"name": "sabotage", "outcome": "node_stability", "operator": "subtract", "value": 2, "is_action": true}
      ],
      "bad_effects": [],
      "ongoing_effects": [
        {"name": "disruption", "outcome": "node_stability", "operator": "subtract", "value": 1}
      ],
      "ongoing_turns": 2
    }
  ],
  "team_list": [
    {"name": "Erasure", "arc": "erasure", "side": "authority", "lifetime": 3},
    {"name": "Cell", "arc": "cell", "side": "resistance", "lifetime": 2}
  ],
  "tuning": {
    "max_stat": 3,
    "max_invisibility": 3,
    "max_renown": 10,
    "max_city_loyalty": 10,
    "loyalty_countdown": 3,
    "max_faction_approval": 10,
    "faction_fire_countdown": 3,
    "traitor_chance_per_capture": 40,
    "capture_loyalty_delta": 2,
    "capture_timer": 3,
    "release_invisibility": 2,
    "actions_per_turn": 2
  },
  "server": {"address": ":9090"}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cityfall_config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	lc, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if lc.ServerAddress != ":9090" {
		t.Fatalf("server address = %q", lc.ServerAddress)
	}
	if a := lc.Catalog.ActionFor("agitator"); a == nil || a.Name != "Stir Unrest" {
		t.Fatalf("action lookup failed: %+v", a)
	}
	// Lookups canonicalize spacing and case.
	if g := lc.Catalog.GearNamed("holo mask"); g == nil || g.CompromiseChance != 30 {
		t.Fatalf("gear lookup failed: %+v", g)
	}
	if p := lc.Catalog.TargetProfileNamed("Transit Hub"); p == nil || p.OngoingTurns != 2 {
		t.Fatalf("target lookup failed: %+v", p)
	}
	if lc.Catalog.Tuning.LoyaltyCountdown != 3 {
		t.Fatalf("tuning not loaded: %+v", lc.Catalog.Tuning)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/cityfall_config.json"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfig_EmptyActionList(t *testing.T) {
	path := writeConfig(t, `{"action_list": [], "team_list": [], "tuning": {}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for empty action_list")
	}
}

func TestLoadConfig_UnknownOutcomeRejected(t *testing.T) {
	bad := `{
	  "action_list": [
	    {"arc": "agitator", "name": "X", "effects": [
	      {"name": "e", "outcome": "nonsense", "operator": "add", "value": 1}
	    ]}
	  ],
	  "team_list": [{"name": "Erasure", "arc": "erasure", "side": "authority", "lifetime": 3}],
	  "tuning": {"max_stat": 3, "max_invisibility": 3, "max_renown": 10, "max_city_loyalty": 10,
	    "loyalty_countdown": 3, "max_faction_approval": 10, "faction_fire_countdown": 3,
	    "capture_timer": 3, "actions_per_turn": 2}
	}`
	if _, err := LoadConfig(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected error for unknown effect outcome")
	}
}

func TestLoadConfig_MissingErasureTeamRejected(t *testing.T) {
	bad := `{
	  "action_list": [
	    {"arc": "agitator", "name": "X", "effects": [
	      {"name": "e", "outcome": "node_support", "operator": "add", "value": 1}
	    ]}
	  ],
	  "team_list": [{"name": "Cell", "arc": "cell", "side": "resistance", "lifetime": 2}],
	  "tuning": {"max_stat": 3, "max_invisibility": 3, "max_renown": 10, "max_city_loyalty": 10,
	    "loyalty_countdown": 3, "max_faction_approval": 10, "faction_fire_countdown": 3,
	    "capture_timer": 3, "actions_per_turn": 2}
	}`
	if _, err := LoadConfig(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected error for catalog without an Erasure archetype")
	}
}

func TestLoadConfig_ZeroTuningRejected(t *testing.T) {
	bad := `{
	  "action_list": [
	    {"arc": "agitator", "name": "X", "effects": [
	      {"name": "e", "outcome": "node_support", "operator": "add", "value": 1}
	    ]}
	  ],
	  "team_list": [{"name": "Erasure", "arc": "erasure", "side": "authority", "lifetime": 3}],
	  "tuning": {"max_stat": 0}
	}`
	if _, err := LoadConfig(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected error for zero tuning knob")
	}
}
