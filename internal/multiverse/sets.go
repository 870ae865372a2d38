package multiverse

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/card"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"gorm.io/gorm"
)

var (
	wotcTZOnce sync.Once
	wotcTZ     *time.Location
)

// publisherTimezone 是发行方所在时区，发售日期按它解析成epoch秒
func publisherTimezone() *time.Location {
	wotcTZOnce.Do(func() {
		loc, err := time.LoadLocation("America/Los_Angeles")
		if err != nil {
			loc = time.FixedZone("PST", -8*3600)
		}
		wotcTZ = loc
	})
	return wotcTZ
}

// insertSets 导入全部系列及其印刷记录
func (s *Syncer) insertSets(tx *gorm.DB, sets map[string]feed.SetRecord) error {
	codes := make([]string, 0, len(sets))
	for code := range sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if err := s.insertSet(tx, sets[code]); err != nil {
			return err
		}
	}
	return nil
}

// insertSet 插入一个Set行和它的全部Printing行。
// 印刷记录必须能通过身份键找到已导入的Card，找不到说明
// 上游数据自身完整性被破坏，立刻中止而不是掩盖
func (s *Syncer) insertSet(tx *gorm.DB, rec feed.SetRecord) error {
	releaseTS, err := parseReleaseDate(rec.ReleaseDate)
	if err != nil {
		return fmt.Errorf("系列 %q 的发售日期无法解析: %w", rec.Code, err)
	}

	cols := card.FeedColumns(card.SetProperties())
	sql := `INSERT INTO "set" (` + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ") RETURNING id"
	// 顺序: name, code, gatherer_code, old_code, magiccardsinfo_code,
	//       release_date, border, type, online_only
	var setID int64
	err = tx.Raw(sql,
		rec.Name,
		rec.Code,
		rec.GathererCode,
		rec.OldCode,
		rec.MagicCardsInfoCode,
		releaseTS,
		rec.Border,
		rec.Type,
		rec.OnlineOnly,
	).Scan(&setID).Error
	if err != nil {
		return fmt.Errorf("无法插入set %q: %w", rec.Code, err)
	}

	for _, pr := range rec.Cards {
		if err := s.insertPrinting(tx, pr, setID, rec.Code); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) insertPrinting(tx *gorm.DB, pr feed.PrintingRecord, setID int64, setCode string) error {
	key := identityKey(feed.CardRecord{Name: pr.Name, Names: pr.Names, Layout: pr.Layout})
	cardID, ok := s.cardIDs[key]
	if !ok {
		return fmt.Errorf("系列 %q 中的印刷记录引用了未知卡牌 %q", setCode, key)
	}

	cols := card.FeedColumns(card.PrintingProperties())
	sql := "INSERT INTO printing (card_id, set_id, " + strings.Join(cols, ", ") +
		") VALUES (?, ?, " + placeholders(len(cols)) + ")"
	// 顺序: system_id, rarity, flavor, artist, number, multiverseid,
	//       watermark, border, timeshifted, reserved, mci_number
	err := tx.Exec(sql,
		cardID,
		setID,
		pr.SystemID,
		pr.Rarity,
		pr.Flavor,
		pr.Artist,
		pr.Number,
		pr.MultiverseID,
		pr.Watermark,
		pr.Border,
		pr.Timeshifted,
		pr.Reserved,
		pr.MCINumber,
	).Error
	if err != nil {
		return fmt.Errorf("无法插入printing %q: %w", pr.Name, err)
	}
	return nil
}

// resolveRarities 后处理：把printing上的稀有度名解析成rarity表的id
func (s *Syncer) resolveRarities(tx *gorm.DB) error {
	type rarityRow struct {
		ID   int64
		Name string
	}
	var rows []rarityRow
	if err := tx.Raw("SELECT id, name FROM rarity").Scan(&rows).Error; err != nil {
		return fmt.Errorf("无法读取rarity表: %w", err)
	}
	for _, r := range rows {
		err := tx.Exec("UPDATE printing SET rarity_id = ? WHERE rarity = ?", r.ID, r.Name).Error
		if err != nil {
			return fmt.Errorf("无法解析稀有度 %q: %w", r.Name, err)
		}
	}
	return nil
}

// parseReleaseDate 把 "2006-01-02" 形式的日期按发行方时区解析成epoch秒
func parseReleaseDate(s string) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02", s, publisherTimezone())
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
