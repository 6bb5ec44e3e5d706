package battle

import "time"

// RoundActions is one actor's submission for a single round: two attack
// zones and three distinct defended zones. It is ephemeral — created on
// submission and discarded once the round resolves.
type RoundActions struct {
	Attacks  [AttackCount]Zone  `json:"attacks"`
	Defenses [DefenseCount]Zone `json:"defenses"`
}

// RoundResult is the immutable record of one resolved round. It is appended
// to a session's history and never mutated afterwards.
type RoundResult struct {
	Round           int          `json:"round"`
	PlayerActions   RoundActions `json:"player_actions"`
	OpponentActions RoundActions `json:"opponent_actions"`
	DamageToPlayer  int          `json:"damage_to_player"`
	DamageToMonster int          `json:"damage_to_monster"`
	PlayerHP        int          `json:"player_hp"`
	OpponentHP      int          `json:"opponent_hp"`
	// PlayerFirst records which side's damage was applied first this round
	// (PvE only; PvP damage is simultaneous).
	PlayerFirst bool `json:"player_first"`
	// MonsterDefeated is set when this round killed the current monster,
	// whether or not more monsters remain.
	MonsterDefeated bool `json:"monster_defeated,omitempty"`
	// Loot rolled for a monster defeated this round.
	Loot []LootDrop `json:"loot,omitempty"`
}

// BattleStatus is the lifecycle state of a PvE battle session.
type BattleStatus string

const (
	BattleActive BattleStatus = "active"
	BattleWon    BattleStatus = "won"
	BattleLost   BattleStatus = "lost"
)

// MatchStatus is the lifecycle state of a PvP match session.
type MatchStatus string

const (
	MatchActive   MatchStatus = "active"
	MatchFinished MatchStatus = "finished"
)

// CombatProfile is the snapshot of an actor's combat-relevant stats taken
// when a session starts. Damage and armor already include equipment bonuses;
// no live reference into the store is held during play.
type CombatProfile struct {
	CharacterID uint   `json:"character_id"`
	Name        string `json:"name"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	Damage      int    `json:"damage"`
	Armor       int    `json:"armor"`
	BackAttack  bool   `json:"back_attack"`
}

// Monster is one opponent inside a dungeon, in encounter order.
type Monster struct {
	MonsterID string `json:"monster_id"`
	Name      string `json:"name"`
	MaxHP     int    `json:"max_hp"`
	Damage    int    `json:"damage"`
	Armor     int    `json:"armor"`
}

// Dungeon is an ordered monster list with a total reward split evenly
// across its monsters.
type Dungeon struct {
	DungeonID  string    `json:"dungeon_id"`
	Name       string    `json:"name"`
	Monsters   []Monster `json:"monsters"`
	GoldReward int       `json:"gold_reward"`
	ExpReward  int       `json:"exp_reward"`
}

// QueueEntry is a waiting matchmaking participant.
type QueueEntry struct {
	CharacterID uint      `json:"character_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

// LootDrop is one item grant produced by the loot generator.
type LootDrop struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
