package loot

import (
	"math/rand"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

// Drop is one loot-table entry for a monster: the item, its independent
// drop chance and the granted quantity.
type Drop struct {
	ItemKey  string
	Chance   float64
	Quantity int
}

// Generator rolls loot for defeated monsters. Each table entry is rolled
// independently, so a lucky kill can drop everything at once.
type Generator struct {
	tables map[string][]Drop
	rng    *rand.Rand
}

// NewGenerator builds a generator over the configured per-monster tables.
// Pass a seeded source in tests for reproducible rolls.
func NewGenerator(tables map[string][]Drop, rng *rand.Rand) *Generator {
	return &Generator{tables: tables, rng: rng}
}

// Generate returns the drops for one defeated monster. An unknown monster
// id yields no loot.
func (g *Generator) Generate(monsterID string) []battle.LootDrop {
	var out []battle.LootDrop
	for _, d := range g.tables[monsterID] {
		if g.rng.Float64() < d.Chance {
			out = append(out, battle.LootDrop{ItemID: d.ItemKey, Quantity: d.Quantity})
		}
	}
	return out
}
