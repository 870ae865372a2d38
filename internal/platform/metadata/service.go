package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Generic Accessors ---

// GetValue retrieves a value for a given key from the metadata table.
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// If the key doesn't exist, return an empty string, which is a valid default.
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue creates or updates a value for a given key within a transaction.
func SetValue(db *gorm.DB, key, value string) error {
	// Use GORM's OnConflict clause for an efficient and atomic "upsert" operation.
	// It will update the 'value' column if a record with the same 'key' already exists.
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// --- Specific Helpers for Type Conversion ---

// GetCatalogVersion retrieves the stored upstream catalog version.
// An empty string means the database has never been synchronized.
func GetCatalogVersion(db *gorm.DB) (string, error) {
	return GetValue(db, CatalogVersionKey)
}

// SetCatalogVersion stamps the upstream catalog version.
func SetCatalogVersion(db *gorm.DB, version string) error {
	return SetValue(db, CatalogVersionKey, version)
}

// SetLastCacheRebuild records the time of the last cache rebuild.
func SetLastCacheRebuild(db *gorm.DB, t time.Time) error {
	return SetValue(db, LastCacheRebuildKey, strconv.FormatInt(t.Unix(), 10))
}

// GetLastCacheRebuild retrieves and parses the last cache rebuild time.
// The zero time is returned when no rebuild has happened yet.
func GetLastCacheRebuild(db *gorm.DB) (time.Time, error) {
	valueStr, err := GetValue(db, LastCacheRebuildKey)
	if err != nil {
		return time.Time{}, err
	}
	if valueStr == "" {
		return time.Time{}, nil
	}
	ts, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析元数据 '%s' 的值: %w", LastCacheRebuildKey, err)
	}
	return time.Unix(ts, 0), nil
}
