package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/loot"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"
)

type monsterEntry struct {
	MonsterID string `json:"monster_id"`
	Name      string `json:"name"`
	HitPoints int    `json:"hit_points"`
	Damage    int    `json:"damage"`
	Armor     int    `json:"armor"`
}

type dungeonEntry struct {
	DungeonID  string         `json:"dungeon_id"`
	Name       string         `json:"name"`
	GoldReward int            `json:"gold_reward"`
	ExpReward  int            `json:"exp_reward"`
	Monsters   []monsterEntry `json:"monsters"`
}

type itemEntry struct {
	ItemKey     string `json:"item_key"`
	Name        string `json:"name"`
	Slot        string `json:"slot"`
	DamageBonus int    `json:"damage_bonus"`
	ArmorBonus  int    `json:"armor_bonus"`
	HPBonus     int    `json:"hp_bonus"`
}

type dropEntry struct {
	ItemKey  string  `json:"item_key"`
	Chance   float64 `json:"chance"`
	Quantity int     `json:"quantity"`
}

type rawConfig struct {
	DungeonList   []dungeonEntry         `json:"dungeon_list"`
	ItemList      []itemEntry            `json:"item_list"`
	LootTables    map[string][]dropEntry `json:"loot_tables"`
	LevelExp      []int                  `json:"level_exp"`
	PvPGoldReward int                    `json:"pvp_gold_reward"`
}

// LoadedConfig contains the game data seeded and served at startup.
type LoadedConfig struct {
	Dungeons      []battle.Dungeon
	ItemCatalog   []storage.ItemTemplate
	LootTables    map[string][]loot.Drop
	LevelExp      []int
	PvPGoldReward int
}

// LoadConfig reads the game-data configuration file at path. It requires a
// non-empty `dungeon_list`; every dungeon needs at least one monster so the
// partial-reward split is always well defined.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.DungeonList) == 0 {
		return nil, fmt.Errorf("config file %s: dungeon_list is empty (provide 'dungeon_list' array)", path)
	}

	out := &LoadedConfig{
		LootTables:    make(map[string][]loot.Drop),
		LevelExp:      rc.LevelExp,
		PvPGoldReward: rc.PvPGoldReward,
	}
	if out.PvPGoldReward == 0 {
		out.PvPGoldReward = 50
	}

	seenDungeon := make(map[string]struct{}, len(rc.DungeonList))
	for _, d := range rc.DungeonList {
		if d.DungeonID == "" {
			return nil, fmt.Errorf("config file %s: dungeon entry missing 'dungeon_id'", path)
		}
		if _, exists := seenDungeon[d.DungeonID]; exists {
			return nil, fmt.Errorf("config file %s: duplicate dungeon_id '%s'", path, d.DungeonID)
		}
		seenDungeon[d.DungeonID] = struct{}{}
		if len(d.Monsters) == 0 {
			return nil, fmt.Errorf("config file %s: dungeon '%s' has no monsters", path, d.DungeonID)
		}
		dungeon := battle.Dungeon{
			DungeonID:  d.DungeonID,
			Name:       d.Name,
			GoldReward: d.GoldReward,
			ExpReward:  d.ExpReward,
		}
		for _, m := range d.Monsters {
			if m.MonsterID == "" {
				return nil, fmt.Errorf("config file %s: dungeon '%s' has a monster without 'monster_id'", path, d.DungeonID)
			}
			if m.HitPoints <= 0 {
				return nil, fmt.Errorf("config file %s: monster '%s' needs positive hit_points", path, m.MonsterID)
			}
			dungeon.Monsters = append(dungeon.Monsters, battle.Monster{
				MonsterID: m.MonsterID,
				Name:      m.Name,
				MaxHP:     m.HitPoints,
				Damage:    m.Damage,
				Armor:     m.Armor,
			})
		}
		out.Dungeons = append(out.Dungeons, dungeon)
	}

	seenItem := make(map[string]struct{}, len(rc.ItemList))
	for _, it := range rc.ItemList {
		if it.ItemKey == "" {
			return nil, fmt.Errorf("config file %s: item entry missing 'item_key'", path)
		}
		if _, exists := seenItem[it.ItemKey]; exists {
			return nil, fmt.Errorf("config file %s: duplicate item_key '%s'", path, it.ItemKey)
		}
		seenItem[it.ItemKey] = struct{}{}
		out.ItemCatalog = append(out.ItemCatalog, storage.ItemTemplate{
			ItemKey:     it.ItemKey,
			Name:        it.Name,
			Slot:        it.Slot,
			DamageBonus: it.DamageBonus,
			ArmorBonus:  it.ArmorBonus,
			HPBonus:     it.HPBonus,
		})
	}

	for monsterID, drops := range rc.LootTables {
		for _, d := range drops {
			if _, known := seenItem[d.ItemKey]; !known {
				return nil, fmt.Errorf("config file %s: loot table '%s' references unknown item '%s'", path, monsterID, d.ItemKey)
			}
			if d.Chance < 0 || d.Chance > 1 {
				return nil, fmt.Errorf("config file %s: loot table '%s' item '%s' chance must be in [0,1]", path, monsterID, d.ItemKey)
			}
			qty := d.Quantity
			if qty == 0 {
				qty = 1
			}
			out.LootTables[monsterID] = append(out.LootTables[monsterID], loot.Drop{
				ItemKey:  d.ItemKey,
				Chance:   d.Chance,
				Quantity: qty,
			})
		}
	}

	return out, nil
}

// DungeonByID returns the configured dungeon or nil.
func (c *LoadedConfig) DungeonByID(id string) *battle.Dungeon {
	for i := range c.Dungeons {
		if c.Dungeons[i].DungeonID == id {
			return &c.Dungeons[i]
		}
	}
	return nil
}
