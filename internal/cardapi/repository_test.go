package cardapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newWordTableDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		"CREATE TABLE fuzzy_word (id INTEGER PRIMARY KEY AUTOINCREMENT, word TEXT NOT NULL, rank INTEGER, soundslike TEXT)",
	).Error)
	return db
}

func TestReloadMatcherAndSearch(t *testing.T) {
	db := newWordTableDB(t, "cardapi_reload")
	require.NoError(t, db.Exec(
		"INSERT INTO fuzzy_word (word, rank, soundslike) VALUES ('island', 1, NULL), ('inland sea', 0, NULL), ('sensei''s divining top', 1, 'sdt')",
	).Error)

	require.NoError(t, ReloadMatcher(db))

	results, err := SearchCard("islend", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "island", results[0].Name)
	assert.True(t, results[0].PDLegal)

	// 别名命中解析到规范名
	results, err = SearchCard("sdt", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "sensei's divining top", results[0].Name)
}

func TestReloadMatcherTreatsNullRankAsNotLegal(t *testing.T) {
	db := newWordTableDB(t, "cardapi_null_rank")
	require.NoError(t, db.Exec("INSERT INTO fuzzy_word (word, rank) VALUES ('gleemox', NULL)").Error)

	require.NoError(t, ReloadMatcher(db))

	results, err := SearchCard("gleemox", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.False(t, results[0].PDLegal)
}
