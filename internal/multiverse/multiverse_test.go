package multiverse

import (
	"fmt"
	"testing"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开一个独立的内存数据库并建好全部表。
// 共享缓存让gorm连接池里的多个连接看到同一份数据
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, metadata.PrimeDB(db))
	require.NoError(t, EnsureSchema(db))
	return db
}

// stubSource 是内存中的feed.Source实现，每个字段直接充当返回值
type stubSource struct {
	version  string
	cards    map[string]feed.CardRecord
	sets     map[string]feed.SetRecord
	legal    map[string][]string
	legalErr error
	bugs     []feed.BugRecord
	bugsErr  error
	aliases  []feed.Alias
	aliasErr error

	cardCalls int
}

func (s *stubSource) CatalogVersion() (string, error) { return s.version, nil }

func (s *stubSource) AllCards() (map[string]feed.CardRecord, error) {
	s.cardCalls++
	out := make(map[string]feed.CardRecord, len(s.cards))
	for k, v := range s.cards {
		out[k] = v
	}
	return out, nil
}

func (s *stubSource) AllSets() (map[string]feed.SetRecord, error) {
	if s.sets == nil {
		return map[string]feed.SetRecord{}, nil
	}
	return s.sets, nil
}

func (s *stubSource) LegalCards(force bool, season string) ([]string, error) {
	if s.legalErr != nil {
		return nil, s.legalErr
	}
	return s.legal[season], nil
}

func (s *stubSource) BuggedCards() ([]feed.BugRecord, error) {
	if s.bugsErr != nil {
		return nil, s.bugsErr
	}
	return s.bugs, nil
}

func (s *stubSource) CardAliases() ([]feed.Alias, error) {
	if s.aliasErr != nil {
		return nil, s.aliasErr
	}
	return s.aliases, nil
}

func strptr(s string) *string { return &s }

func normalCard(name, typeLine string) feed.CardRecord {
	text := name + " does something."
	return feed.CardRecord{
		Name:      name,
		Layout:    "normal",
		CMC:       3,
		Type:      typeLine,
		Text:      &text,
		ImageName: name,
	}
}

func count(t *testing.T, db *gorm.DB, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Raw(query, args...).Scan(&n).Error)
	return n
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "Island", identityKey(feed.CardRecord{Name: "Island", Layout: "normal"}))

	assert.Equal(t, "Fire // Ice", identityKey(feed.CardRecord{
		Name: "Fire", Names: []string{"Fire", "Ice"}, Layout: "split",
	}))

	// 融合卡的正面用自己的名字
	assert.Equal(t, "Bruna, the Fading Light", identityKey(feed.CardRecord{
		Name:   "Bruna, the Fading Light",
		Names:  []string{"Bruna, the Fading Light", "Gisela, the Broken Blade", "Brisela, Voice of Nightmares"},
		Layout: "meld",
	}))

	// 已融合的背面归入names首位的正面
	assert.Equal(t, "Bruna, the Fading Light", identityKey(feed.CardRecord{
		Name:   "Brisela, Voice of Nightmares",
		Names:  []string{"Bruna, the Fading Light", "Gisela, the Broken Blade", "Brisela, Voice of Nightmares"},
		Layout: "meld",
	}))
}

func TestVersionIsNewer(t *testing.T) {
	assert.True(t, versionIsNewer("3.10.2", ""))
	assert.True(t, versionIsNewer("3.10.2", "3.10.1"))
	assert.True(t, versionIsNewer("3.10.0", "3.9.9"))
	assert.False(t, versionIsNewer("3.10.2", "3.10.2"))
	assert.False(t, versionIsNewer("3.9.9", "3.10.0"))
	// 无法按语义化版本比较时退化成不等比较
	assert.True(t, versionIsNewer("weekly-12", "weekly-11"))
	assert.False(t, versionIsNewer("weekly-12", "weekly-12"))
}

func TestResyncImportsCatalog(t *testing.T) {
	db := newTestDB(t, "resync_imports")
	source := &stubSource{
		version: "1.0.0",
		cards: map[string]feed.CardRecord{
			"Gigantosaurus": {
				Name:      "Gigantosaurus",
				Layout:    "normal",
				ManaCost:  strptr("{G}{G}{G}{G}{G}"),
				CMC:       5,
				Power:     strptr("10"),
				Toughness: strptr("10"),
				Type:      "Creature — Dinosaur",
				Subtypes:  []string{"Dinosaur"},
				Text:      strptr("Gigantosaurus can't be blocked by creatures with power 2 or less. (Some reminder text.)"),
				Colors:    []string{"Green"},
				ColorIdentity: []string{"G"},
				Legalities: []feed.FormatLegality{
					{Format: "Standard", Legality: "Legal"},
				},
				ImageName: "gigantosaurus",
			},
		},
		sets: map[string]feed.SetRecord{
			"M19": {
				Name:        "Core Set 2019",
				Code:        "M19",
				ReleaseDate: "2018-07-13",
				Border:      "black",
				Type:        "core",
				Cards: []feed.PrintingRecord{
					{Name: "Gigantosaurus", Layout: "normal", SystemID: "abc123", Rarity: "Rare", Artist: "Victor Adame Minguez"},
				},
			},
		},
		legal: map[string][]string{"": {"Gigantosaurus"}},
	}

	syncer := NewSyncer(db, source)
	require.NoError(t, syncer.Resync())

	// 目录 + 硬编码的Gleemox
	assert.EqualValues(t, 2, count(t, db, "SELECT COUNT(*) FROM card"))
	assert.EqualValues(t, 2, count(t, db, "SELECT COUNT(*) FROM face"))
	assert.EqualValues(t, 1, count(t, db, `SELECT COUNT(*) FROM "set"`))
	assert.EqualValues(t, 1, count(t, db, "SELECT COUNT(*) FROM printing"))

	version, err := metadata.GetCatalogVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	// 稀有度名已解析为rarity表的id
	assert.EqualValues(t, 1, count(t, db,
		"SELECT COUNT(*) FROM printing WHERE rarity_id = (SELECT id FROM rarity WHERE name = 'Rare')"))

	// 颜色与类别连接表
	assert.EqualValues(t, 1, count(t, db,
		"SELECT COUNT(*) FROM card_color WHERE color_id = (SELECT id FROM color WHERE name = 'Green')"))
	assert.EqualValues(t, 1, count(t, db,
		"SELECT COUNT(*) FROM card_color_identity WHERE color_id = (SELECT id FROM color WHERE symbol = 'G')"))
	assert.EqualValues(t, 1, count(t, db, "SELECT COUNT(*) FROM card_subtype WHERE subtype = 'Dinosaur'"))

	// search_text去掉了括号里的提示语
	var searchText string
	require.NoError(t, db.Raw("SELECT search_text FROM face WHERE name = 'Gigantosaurus'").Scan(&searchText).Error)
	assert.NotContains(t, searchText, "Some reminder text")

	// 缓存表已物化，当前合法性反映在pd_legal上
	assert.EqualValues(t, 1, count(t, db, "SELECT COUNT(*) FROM _cache_card WHERE name = 'Gigantosaurus' AND pd_legal = 1"))
	assert.EqualValues(t, 1, count(t, db, "SELECT COUNT(*) FROM _cache_card WHERE name = 'Gleemox' AND COALESCE(pd_legal, 0) = 0"))
}

func TestResyncSkipsWhenVersionUnchanged(t *testing.T) {
	db := newTestDB(t, "resync_skip")
	source := &stubSource{
		version: "1.0.0",
		cards:   map[string]feed.CardRecord{"Island": normalCard("Island", "Basic Land — Island")},
	}

	syncer := NewSyncer(db, source)
	require.NoError(t, syncer.Resync())
	require.NoError(t, syncer.Resync())
	assert.Equal(t, 1, source.cardCalls)
}

func TestResyncReimportsOnNewVersion(t *testing.T) {
	db := newTestDB(t, "resync_new_version")
	source := &stubSource{
		version: "1.0.0",
		cards:   map[string]feed.CardRecord{"Island": normalCard("Island", "Basic Land — Island")},
	}

	syncer := NewSyncer(db, source)
	require.NoError(t, syncer.Resync())

	source.version = "1.1.0"
	source.cards["Swamp"] = normalCard("Swamp", "Basic Land — Swamp")
	require.NoError(t, syncer.Resync())

	assert.Equal(t, 2, source.cardCalls)
	// 全量重建：旧数据被替换而不是累积
	assert.EqualValues(t, 3, count(t, db, "SELECT COUNT(*) FROM card"))
}

func TestForceResyncIgnoresVersionStamp(t *testing.T) {
	db := newTestDB(t, "force_resync")
	source := &stubSource{
		version: "1.0.0",
		cards:   map[string]feed.CardRecord{"Island": normalCard("Island", "Basic Land — Island")},
	}

	syncer := NewSyncer(db, source)
	require.NoError(t, syncer.Resync())
	require.NoError(t, syncer.ForceResync())
	assert.Equal(t, 2, source.cardCalls)
}

func TestMeldBackInsertedUnderBothFronts(t *testing.T) {
	names := []string{"Bruna, the Fading Light", "Gisela, the Broken Blade", "Brisela, Voice of Nightmares"}
	db := newTestDB(t, "meld")
	source := &stubSource{
		version: "1.0.0",
		cards: map[string]feed.CardRecord{
			"Bruna, the Fading Light": {
				Name: names[0], Names: names, Layout: "meld",
				CMC: 7, Type: "Legendary Creature — Angel Horror", Text: strptr("Flying"),
			},
			"Gisela, the Broken Blade": {
				Name: names[1], Names: names, Layout: "meld",
				CMC: 4, Type: "Legendary Creature — Angel Horror", Text: strptr("Flying, first strike"),
			},
			"Brisela, Voice of Nightmares": {
				Name: names[2], Names: names, Layout: "meld",
				CMC: 11, Type: "Legendary Creature — Eldrazi Angel", Text: strptr("Flying, vigilance"),
			},
		},
	}

	syncer := NewSyncer(db, source)
	require.NoError(t, syncer.Resync())

	// 两个正面 + Gleemox；融合面不产生自己的Card
	assert.EqualValues(t, 3, count(t, db, "SELECT COUNT(*) FROM card"))

	// 融合面插入了两次，分别落在两个正面的卡下
	assert.EqualValues(t, 2, count(t, db, "SELECT COUNT(*) FROM face WHERE name = ?", names[2]))
	assert.EqualValues(t, 2, count(t, db, "SELECT COUNT(DISTINCT card_id) FROM face WHERE name = ?", names[2]))

	// 两行融合面的position都是3
	assert.EqualValues(t, 2, count(t, db, "SELECT COUNT(*) FROM face WHERE name = ? AND position = 3", names[2]))

	// 融合面与对应正面共享card_id
	assert.EqualValues(t, 1, count(t, db,
		"SELECT COUNT(*) FROM face WHERE name = ? AND card_id = (SELECT card_id FROM face WHERE name = ?)",
		names[2], names[0]))
	assert.EqualValues(t, 1, count(t, db,
		"SELECT COUNT(*) FROM face WHERE name = ? AND card_id = (SELECT card_id FROM face WHERE name = ?)",
		names[2], names[1]))
}

func TestResyncFailsWhenNamesExcludesOwnName(t *testing.T) {
	db := newTestDB(t, "names_excludes_self")
	source := &stubSource{
		version: "1.0.0",
		cards: map[string]feed.CardRecord{
			"Fire": {
				Name: "Fire", Names: []string{"Flame", "Ice"}, Layout: "split",
				CMC: 2, Type: "Instant", Text: strptr("Fire deals 2 damage divided as you choose."),
			},
		},
	}

	syncer := NewSyncer(db, source)
	// names列表不含条目自身时无法确定face位置，必须中止而不是默认塞到位置1
	err := syncer.Resync()
	require.Error(t, err)

	assert.EqualValues(t, 0, count(t, db, "SELECT COUNT(*) FROM card"))
	version, verr := metadata.GetCatalogVersion(db)
	require.NoError(t, verr)
	assert.Empty(t, version)
}

func TestResyncFailsOnUnknownPrinting(t *testing.T) {
	db := newTestDB(t, "unknown_printing")
	source := &stubSource{
		version: "1.0.0",
		cards:   map[string]feed.CardRecord{"Island": normalCard("Island", "Basic Land — Island")},
		sets: map[string]feed.SetRecord{
			"BAD": {
				Name: "Broken Set", Code: "BAD", ReleaseDate: "2018-01-01", Border: "black", Type: "expansion",
				Cards: []feed.PrintingRecord{
					{Name: "Card That Does Not Exist", Layout: "normal", SystemID: "x", Rarity: "Rare", Artist: "Nobody"},
				},
			},
		},
	}

	syncer := NewSyncer(db, source)
	err := syncer.Resync()
	require.Error(t, err)

	// 事务整体回滚，数据库保持同步前状态
	assert.EqualValues(t, 0, count(t, db, "SELECT COUNT(*) FROM card"))
	version, verr := metadata.GetCatalogVersion(db)
	require.NoError(t, verr)
	assert.Empty(t, version)
}

func TestTextBackfillByLayout(t *testing.T) {
	db := newTestDB(t, "text_backfill")
	vanilla := normalCard("Vanilla", "Creature — Bear")
	vanilla.Text = nil
	scheme := feed.CardRecord{Name: "Grand Scheme", Layout: "scheme", Type: "Scheme", ImageName: "scheme"}

	source := &stubSource{
		version: "1.0.0",
		cards: map[string]feed.CardRecord{
			"Vanilla":      vanilla,
			"Grand Scheme": scheme,
		},
	}

	syncer := NewSyncer(db, source)
	require.NoError(t, syncer.Resync())

	// normal布局缺失文本回填为空串，scheme布局保持NULL
	assert.EqualValues(t, 1, count(t, db, "SELECT COUNT(*) FROM face WHERE name = 'Vanilla' AND text = ''"))
	assert.EqualValues(t, 1, count(t, db, "SELECT COUNT(*) FROM face WHERE name = 'Grand Scheme' AND text IS NULL"))
}
