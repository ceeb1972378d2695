package models

import "gorm.io/gorm"

// DefaultLinksTable is used when no table name is configured
const DefaultLinksTable = "links"

// AllModels returns all models for migration
func AllModels() []interface{} {
	return []interface{}{
		&Link{},
	}
}

// AutoMigrate runs GORM auto-migration for the link model against the given table
func AutoMigrate(db *gorm.DB, table string) error {
	if table == "" {
		table = DefaultLinksTable
	}
	return db.Table(table).AutoMigrate(AllModels()...)
}
