package storage

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

// CharacterSnapshot is the combat-relevant read the battle core takes when a
// session starts. Damage/Armor are base stats only; equipment aggregation is
// applied by the stats package on top of EquippedItems.
type CharacterSnapshot struct {
	CharacterID        uint
	Name               string
	HP                 int
	MaxHP              int
	BaseDamage         int
	BaseArmor          int
	BackAttackUnlocked bool
	EquippedItems      []ItemTemplate
}

type Repository interface {
	GetCharacterByID(id uint) (*Character, error)
	// GetCharacterSnapshot reads the character row plus the templates of all
	// equipped items in one call.
	GetCharacterSnapshot(id uint) (*CharacterSnapshot, error)

	// Reward application. Each call is atomic on its own; the battle core
	// does not expect cross-call transactional rollback.
	ApplyBattleRewards(characterID uint, goldDelta, expDelta int) error
	ApplyLoot(characterID uint, drops []battle.LootDrop) error
	SetCurrentHP(characterID uint, hp int) error
	AddLevels(characterID uint, levels, statPoints int) error
	RecordBattleOutcome(characterID uint, won bool) error

	GetItemTemplateByKey(key string) (*ItemTemplate, error)
	SaveBattleLog(log *BattleLog) error
	GetBattleLogs(characterID uint, limit int) ([]BattleLog, error)
}
