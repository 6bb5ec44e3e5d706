package storage

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database, keeps the schema updated via
// AutoMigrate and seeds the item catalog from config. The catalog is
// re-seeded additively: templates present in config but missing from the DB
// are inserted, existing rows keep their IDs.
func OpenAndMigrate(dataSourceName string, catalog []ItemTemplate) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Character{}, &ItemTemplate{}, &InventoryItem{}, &BattleLog{}); err != nil {
		return nil, err
	}
	seedItemCatalog(db, catalog)
	return db, nil
}

func seedItemCatalog(db *gorm.DB, catalog []ItemTemplate) {
	for _, t := range catalog {
		var count int64
		db.Model(&ItemTemplate{}).Where("item_key = ?", t.ItemKey).Count(&count)
		if count > 0 {
			continue
		}
		tpl := t
		if err := db.Create(&tpl).Error; err != nil {
			logging.Error("failed to seed item template", err, logging.Fields{"item_key": t.ItemKey})
		}
	}
}
