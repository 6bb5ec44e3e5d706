package reward

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/loot"
)

// Leveler is the leveling collaborator invoked after experience lands.
type Leveler interface {
	CheckAndLevelUp(characterID uint) (int, error)
}

// Repo is the slice of the store the applier writes to.
type Repo interface {
	ApplyBattleRewards(characterID uint, goldDelta, expDelta int) error
	ApplyLoot(characterID uint, drops []battle.LootDrop) error
	SetCurrentHP(characterID uint, hp int) error
	RecordBattleOutcome(characterID uint, won bool) error
}

// Applier pushes battle rewards into the store. Every write is best-effort:
// combat has already produced an authoritative result by the time rewards
// are applied, so collaborator failures are logged and swallowed rather
// than rolled back into session state.
type Applier struct {
	repo    Repo
	loot    *loot.Generator
	leveler Leveler
}

func NewApplier(repo Repo, lootGen *loot.Generator, leveler Leveler) *Applier {
	return &Applier{repo: repo, loot: lootGen, leveler: leveler}
}

// GrantMonsterReward applies the partial reward for one defeated monster:
// the gold/exp share plus a loot roll, then a level check. Returns the
// rolled drops so the session can include them in the round result.
func (a *Applier) GrantMonsterReward(characterID uint, monsterID string, gold, exp int) []battle.LootDrop {
	if err := a.repo.ApplyBattleRewards(characterID, gold, exp); err != nil {
		logging.Error("failed to apply battle rewards", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
			constants.LogFieldMonsterID:   monsterID,
		})
	}
	drops := a.loot.Generate(monsterID)
	if err := a.repo.ApplyLoot(characterID, drops); err != nil {
		logging.Error("failed to apply loot", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
			constants.LogFieldMonsterID:   monsterID,
		})
	}
	a.levelCheck(characterID)
	return drops
}

// GrantGold applies a flat gold reward (PvP victory payout).
func (a *Applier) GrantGold(characterID uint, gold int) {
	if gold == 0 {
		return
	}
	if err := a.repo.ApplyBattleRewards(characterID, gold, 0); err != nil {
		logging.Error("failed to apply gold reward", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
		})
	}
}

// SetHP writes a character's post-battle HP back to the store.
func (a *Applier) SetHP(characterID uint, hp int) {
	if err := a.repo.SetCurrentHP(characterID, hp); err != nil {
		logging.Error("failed to persist character hp", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
		})
	}
}

// RecordOutcome bumps the character's win/loss counters.
func (a *Applier) RecordOutcome(characterID uint, won bool) {
	if err := a.repo.RecordBattleOutcome(characterID, won); err != nil {
		logging.Error("failed to record battle outcome", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
		})
	}
}

func (a *Applier) levelCheck(characterID uint) {
	if a.leveler == nil {
		return
	}
	gained, err := a.leveler.CheckAndLevelUp(characterID)
	if err != nil {
		logging.Error("level check failed", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
		})
		return
	}
	if gained > 0 {
		logging.Info("character leveled up", logging.Fields{
			constants.LogFieldCharacterID: characterID,
			"levels_gained":               gained,
		})
	}
}
