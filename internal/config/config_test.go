package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena_config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `{
	"dungeon_list": [
		{
			"dungeon_id": "crypt",
			"name": "The Crypt",
			"gold_reward": 90,
			"exp_reward": 60,
			"monsters": [
				{"monster_id": "skeleton", "name": "Skeleton", "hit_points": 30, "damage": 8, "armor": 2},
				{"monster_id": "lich", "name": "Lich", "hit_points": 60, "damage": 15, "armor": 5}
			]
		}
	],
	"item_list": [
		{"item_key": "rusty_sword", "name": "Rusty Sword", "slot": "weapon", "damage_bonus": 3}
	],
	"loot_tables": {
		"skeleton": [{"item_key": "rusty_sword", "chance": 0.25}]
	},
	"level_exp": [100, 300],
	"pvp_gold_reward": 75
}`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Dungeons) != 1 || len(cfg.Dungeons[0].Monsters) != 2 {
		t.Fatalf("unexpected dungeons: %+v", cfg.Dungeons)
	}
	if cfg.Dungeons[0].Monsters[1].MaxHP != 60 {
		t.Fatalf("hit_points not mapped: %+v", cfg.Dungeons[0].Monsters[1])
	}
	if len(cfg.ItemCatalog) != 1 || cfg.ItemCatalog[0].ItemKey != "rusty_sword" {
		t.Fatalf("unexpected item catalog: %+v", cfg.ItemCatalog)
	}
	if cfg.PvPGoldReward != 75 {
		t.Fatalf("pvp_gold_reward not read, got %d", cfg.PvPGoldReward)
	}
	drops := cfg.LootTables["skeleton"]
	if len(drops) != 1 || drops[0].Quantity != 1 {
		t.Fatalf("loot quantity must default to 1: %+v", drops)
	}

	if d := cfg.DungeonByID("crypt"); d == nil || d.Name != "The Crypt" {
		t.Fatalf("DungeonByID failed: %+v", d)
	}
	if d := cfg.DungeonByID("missing"); d != nil {
		t.Fatalf("unknown dungeon must return nil, got %+v", d)
	}
}

func TestLoadConfig_DefaultPvPGold(t *testing.T) {
	body := `{"dungeon_list": [{"dungeon_id": "d", "monsters": [{"monster_id": "m", "hit_points": 10}]}]}`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PvPGoldReward != 50 {
		t.Fatalf("expected default pvp gold 50, got %d", cfg.PvPGoldReward)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{`, "failed to parse"},
		{"empty dungeons", `{"dungeon_list": []}`, "dungeon_list is empty"},
		{"missing dungeon id", `{"dungeon_list": [{"monsters": [{"monster_id": "m", "hit_points": 1}]}]}`, "missing 'dungeon_id'"},
		{"duplicate dungeon id", `{"dungeon_list": [
			{"dungeon_id": "d", "monsters": [{"monster_id": "m", "hit_points": 1}]},
			{"dungeon_id": "d", "monsters": [{"monster_id": "m2", "hit_points": 1}]}
		]}`, "duplicate dungeon_id"},
		{"no monsters", `{"dungeon_list": [{"dungeon_id": "d", "monsters": []}]}`, "has no monsters"},
		{"bad hit points", `{"dungeon_list": [{"dungeon_id": "d", "monsters": [{"monster_id": "m", "hit_points": 0}]}]}`, "positive hit_points"},
		{"duplicate item key", `{
			"dungeon_list": [{"dungeon_id": "d", "monsters": [{"monster_id": "m", "hit_points": 1}]}],
			"item_list": [{"item_key": "x"}, {"item_key": "x"}]
		}`, "duplicate item_key"},
		{"unknown loot item", `{
			"dungeon_list": [{"dungeon_id": "d", "monsters": [{"monster_id": "m", "hit_points": 1}]}],
			"loot_tables": {"m": [{"item_key": "ghost", "chance": 0.5}]}
		}`, "unknown item"},
		{"chance out of range", `{
			"dungeon_list": [{"dungeon_id": "d", "monsters": [{"monster_id": "m", "hit_points": 1}]}],
			"item_list": [{"item_key": "x"}],
			"loot_tables": {"m": [{"item_key": "x", "chance": 1.5}]}
		}`, "chance must be in [0,1]"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, c.body))
			if err == nil {
				t.Fatalf("expected error containing %q", c.want)
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
