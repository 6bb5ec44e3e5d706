package storage

import (
	"errors"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"

	"gorm.io/gorm"
)

var ErrCharacterNotFound = errors.New("character not found")

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetCharacterByID(id uint) (*Character, error) {
	var c Character
	err := r.db.Preload("Inventory").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) GetCharacterSnapshot(id uint) (*CharacterSnapshot, error) {
	c, err := r.GetCharacterByID(id)
	if err != nil {
		return nil, err
	}
	snap := &CharacterSnapshot{
		CharacterID:        c.ID,
		Name:               c.Name,
		HP:                 c.HP,
		MaxHP:              c.MaxHP,
		BaseDamage:         c.BaseDamage,
		BaseArmor:          c.BaseArmor,
		BackAttackUnlocked: c.BackAttackUnlocked,
	}
	keys := make([]string, 0, len(c.Inventory))
	for _, it := range c.Inventory {
		if it.Equipped {
			keys = append(keys, it.ItemKey)
		}
	}
	if len(keys) > 0 {
		if err := r.db.Where("item_key IN ?", keys).Find(&snap.EquippedItems).Error; err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (r *sqliteRepository) ApplyBattleRewards(characterID uint, goldDelta, expDelta int) error {
	return r.db.Model(&Character{}).Where("id = ?", characterID).
		Updates(map[string]interface{}{
			"gold":       gorm.Expr("gold + ?", goldDelta),
			"experience": gorm.Expr("experience + ?", expDelta),
		}).Error
}

func (r *sqliteRepository) ApplyLoot(characterID uint, drops []battle.LootDrop) error {
	if len(drops) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range drops {
			var item InventoryItem
			err := tx.Where("character_id = ? AND item_key = ? AND equipped = ?", characterID, d.ItemID, false).
				First(&item).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item = InventoryItem{CharacterID: characterID, ItemKey: d.ItemID, Quantity: d.Quantity}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&item).Update("quantity", item.Quantity+d.Quantity).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *sqliteRepository) SetCurrentHP(characterID uint, hp int) error {
	return r.db.Model(&Character{}).Where("id = ?", characterID).Update("hp", hp).Error
}

func (r *sqliteRepository) AddLevels(characterID uint, levels, statPoints int) error {
	if levels <= 0 {
		return nil
	}
	return r.db.Model(&Character{}).Where("id = ?", characterID).
		Updates(map[string]interface{}{
			"level":       gorm.Expr("level + ?", levels),
			"stat_points": gorm.Expr("stat_points + ?", statPoints),
		}).Error
}

func (r *sqliteRepository) RecordBattleOutcome(characterID uint, won bool) error {
	col := "battles_lost"
	if won {
		col = "battles_won"
	}
	return r.db.Model(&Character{}).Where("id = ?", characterID).
		Update(col, gorm.Expr(col+" + 1")).Error
}

func (r *sqliteRepository) GetItemTemplateByKey(key string) (*ItemTemplate, error) {
	var t ItemTemplate
	if err := r.db.Where("item_key = ?", key).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *sqliteRepository) SaveBattleLog(log *BattleLog) error {
	return r.db.Create(log).Error
}

func (r *sqliteRepository) GetBattleLogs(characterID uint, limit int) ([]BattleLog, error) {
	var logs []BattleLog
	err := r.db.Where("character_id = ?", characterID).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
