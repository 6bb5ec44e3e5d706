package stats

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"
)

// EffectiveProfile folds equipped-item bonuses into a character snapshot,
// producing the combat profile both session types fight with. Current HP is
// clamped to the effective maximum so removing +HP gear between battles
// cannot leave a character above cap.
func EffectiveProfile(snap *storage.CharacterSnapshot) battle.CombatProfile {
	damage := snap.BaseDamage
	armor := snap.BaseArmor
	maxHP := snap.MaxHP
	for _, it := range snap.EquippedItems {
		damage += it.DamageBonus
		armor += it.ArmorBonus
		maxHP += it.HPBonus
	}
	hp := snap.HP
	if hp > maxHP {
		hp = maxHP
	}
	return battle.CombatProfile{
		CharacterID: snap.CharacterID,
		Name:        snap.Name,
		HP:          hp,
		MaxHP:       maxHP,
		Damage:      damage,
		Armor:       armor,
		BackAttack:  snap.BackAttackUnlocked,
	}
}
