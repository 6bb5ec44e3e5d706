package storage

import (
	"gorm.io/gorm"
)

// Character stores durable character state. Combat sessions read a snapshot
// of it at start and write HP/gold/exp back at termination; nothing holds a
// live reference to the row during play.
type Character struct {
	gorm.Model
	Name       string `json:"name" gorm:"uniqueIndex"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Gold       int    `json:"gold"`
	StatPoints int    `json:"stat_points"`

	HP         int `json:"hp"`
	MaxHP      int `json:"max_hp"`
	BaseDamage int `json:"base_damage"`
	BaseArmor  int `json:"base_armor"`

	// BackAttackUnlocked gates the asymmetric back zone in combat.
	BackAttackUnlocked bool `json:"back_attack_unlocked"`

	Inventory []InventoryItem `json:"inventory"`

	BattlesWon  int `json:"battles_won"`
	BattlesLost int `json:"battles_lost"`
}

// ItemTemplate is a catalog entry seeded from the game config. Stats listed
// here contribute to a character's effective damage/armor when equipped.
type ItemTemplate struct {
	gorm.Model
	ItemKey     string `json:"item_key" gorm:"uniqueIndex"`
	Name        string `json:"name"`
	Slot        string `json:"slot"`
	DamageBonus int    `json:"damage_bonus"`
	ArmorBonus  int    `json:"armor_bonus"`
	HPBonus     int    `json:"hp_bonus"`
}

// InventoryItem is one stack of an item owned by a character.
type InventoryItem struct {
	gorm.Model
	CharacterID uint   `json:"-" gorm:"index"`
	ItemKey     string `json:"item_key"`
	Quantity    int    `json:"quantity"`
	Equipped    bool   `json:"equipped"`
}

// BattleLog archives a terminated session: PvE battles and PvP matches both
// land here with their round history serialized as JSON.
type BattleLog struct {
	gorm.Model
	SessionID   string `json:"session_id" gorm:"index"`
	Kind        string `json:"kind"` // pve | pvp
	CharacterID uint   `json:"character_id" gorm:"index"`
	OpponentID  uint   `json:"opponent_id"`
	DungeonID   string `json:"dungeon_id"`
	Outcome     string `json:"outcome"`
	Rounds      int    `json:"rounds"`
	GoldAwarded int    `json:"gold_awarded"`
	ExpAwarded  int    `json:"exp_awarded"`
	HistoryJSON []byte `json:"-" gorm:"type:blob"`
}
