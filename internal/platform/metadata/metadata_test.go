package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, PrimeDB(db))
	return db
}

func TestGetValueMissingKeyReturnsEmpty(t *testing.T) {
	db := newTestDB(t, "metadata_missing")
	value, err := GetValue(db, "no_such_key")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestSetValueUpserts(t *testing.T) {
	db := newTestDB(t, "metadata_upsert")
	require.NoError(t, SetValue(db, "k", "v1"))
	require.NoError(t, SetValue(db, "k", "v2"))

	value, err := GetValue(db, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM metadata WHERE key = 'k'").Scan(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCatalogVersionRoundtrip(t *testing.T) {
	db := newTestDB(t, "metadata_version")

	version, err := GetCatalogVersion(db)
	require.NoError(t, err)
	assert.Empty(t, version)

	require.NoError(t, SetCatalogVersion(db, "3.10.2"))
	version, err = GetCatalogVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "3.10.2", version)
}

func TestLastCacheRebuildRoundtrip(t *testing.T) {
	db := newTestDB(t, "metadata_rebuild")

	zero, err := GetLastCacheRebuild(db)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	now := time.Now().Truncate(time.Second)
	require.NoError(t, SetLastCacheRebuild(db, now))
	got, err := GetLastCacheRebuild(db)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))
}
