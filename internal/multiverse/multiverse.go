// Package multiverse 负责把上游卡牌目录同步进关系数据库：
// 多面卡的规范化、按赛季的合法性计算、系列与印刷的导入、
// bug列表的合并，以及反规范化缓存和模糊名称索引的重建。
// 对外的读取入口统一走投影查询（projection.go）或缓存表。
package multiverse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/metadata"
	"github.com/google/uuid"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// Layouts 返回导入逻辑已知的全部卡牌布局。
// 投影里的聚合规则按布局区分，上游出现新布局时必须重新审视这些规则
func Layouts() []string {
	return []string{
		"normal", "meld", "split", "phenomenon", "token", "vanguard",
		"double-faced", "plane", "flip", "scheme", "leveler", "aftermath",
	}
}

// Syncer 持有一次同步运行的全部进程内状态。
// 名称到card id、格式名到format id的缓存都只在单次运行内有效，
// 每次Resync开始时重建，绝不跨运行复用
type Syncer struct {
	db     *gorm.DB
	source feed.Source

	runID     string
	cardIDs   map[string]int64
	formatIDs map[string]int64
}

// NewSyncer 创建一个同步器
func NewSyncer(db *gorm.DB, source feed.Source) *Syncer {
	return &Syncer{db: db, source: source}
}

// Resync 比较上游目录版本和本地存档版本，过期时执行全量重新同步。
// 主体（清空、导入、合法性、bug、模糊索引、版本戳）在一个事务内完成，
// 全有或全无；缓存重建在主事务提交后单独进行
func (s *Syncer) Resync() error {
	currentVersion, err := s.source.CatalogVersion()
	if err != nil {
		return fmt.Errorf("无法获取上游目录版本: %w", err)
	}
	storedVersion, err := metadata.GetCatalogVersion(s.db)
	if err != nil {
		return fmt.Errorf("无法读取本地目录版本: %w", err)
	}
	if !versionIsNewer(currentVersion, storedVersion) {
		fmt.Printf("目录版本 %s 未更新，跳过同步。\n", storedVersion)
		return nil
	}

	s.runID = uuid.NewString()
	fmt.Printf("同步[%s]: 检测到目录更新 %s -> %s，开始全量同步...\n", s.runID, storedVersion, currentVersion)

	// 在任何破坏性删除之前拿到完整目录；这里失败则整次同步中止
	cards, err := s.source.AllCards()
	if err != nil {
		return fmt.Errorf("无法获取完整卡牌目录，本次同步中止: %w", err)
	}
	sets, err := s.source.AllSets()
	if err != nil {
		return fmt.Errorf("无法获取系列目录，本次同步中止: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 进程内缓存只在本次运行内有效
		s.cardIDs = make(map[string]int64, len(cards))
		s.formatIDs = nil

		if err := wipeDerivedTables(tx); err != nil {
			return err
		}

		addHardcodedCards(cards)
		if err := s.insertCatalog(tx, cards); err != nil {
			return err
		}
		if err := s.insertSets(tx, sets); err != nil {
			return err
		}
		if err := s.resolveRarities(tx); err != nil {
			return err
		}
		s.checkLayouts(tx)

		if err := s.updateBuggedCards(tx); err != nil {
			return err
		}
		if err := s.updateLegality(tx); err != nil {
			return err
		}
		// 模糊索引的rank依赖合法性事实，必须在updateLegality之后重建
		if err := s.rebuildFuzzyIndex(tx); err != nil {
			return err
		}
		return metadata.SetCatalogVersion(tx, currentVersion)
	})
	if err != nil {
		return fmt.Errorf("同步[%s]失败，数据库保持同步前状态: %w", s.runID, err)
	}
	fmt.Printf("同步[%s]: 目录同步完成，版本 %s。\n", s.runID, currentVersion)

	// 缓存重建是独立事务：它失败不应回滚已经成功的目录更新
	return s.RebuildCache()
}

// ForceResync 清掉本地版本戳后重新同步，供管理命令使用
func (s *Syncer) ForceResync() error {
	if err := metadata.SetCatalogVersion(s.db, ""); err != nil {
		return err
	}
	return s.Resync()
}

// insertCatalog 按规范化规则导入全部目录条目。
// 融合卡的"已融合"面（names列表第三项且与自身同名）被推迟到所有
// 普通条目之后处理，并插入两次：第二次交换names的前两项，
// 让它在两个正面各自的名称顺序下都可达
func (s *Syncer) insertCatalog(tx *gorm.DB, cards map[string]feed.CardRecord) error {
	keys := make([]string, 0, len(cards))
	for k := range cards {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var meldedBacks []feed.CardRecord
	for _, k := range keys {
		c := cards[k]
		if c.Layout == "meld" && len(c.Names) >= 3 && c.Name == c.Names[2] {
			meldedBacks = append(meldedBacks, c)
			continue
		}
		if err := s.insertCard(tx, c); err != nil {
			return err
		}
	}
	for _, c := range meldedBacks {
		if err := s.insertCard(tx, c); err != nil {
			return err
		}
		swapped := make([]string, len(c.Names))
		copy(swapped, c.Names)
		swapped[0], swapped[1] = swapped[1], swapped[0]
		c.Names = swapped
		if err := s.insertCard(tx, c); err != nil {
			return err
		}
	}
	return nil
}

// wipeDerivedTables 按外键依赖顺序清空全部派生表和实体表
func wipeDerivedTables(tx *gorm.DB) error {
	tables := []string{
		"card_color",
		"card_color_identity",
		"card_legality",
		"card_subtype",
		"card_supertype",
		"card_bug",
		"fuzzy_word",
		"face",
		"printing",
		"card",
		`"set"`,
	}
	for _, t := range tables {
		if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("无法清空表 %s: %w", t, err)
		}
	}
	return nil
}

// checkLayouts 校验硬编码的布局清单与库内实际出现的布局是否一致。
// 不一致只告警不中止：新布局可能让按布局区分的费用聚合规则失效
func (s *Syncer) checkLayouts(tx *gorm.DB) {
	var actual []string
	if err := tx.Raw("SELECT DISTINCT layout FROM card").Scan(&actual).Error; err != nil {
		fmt.Printf("同步[%s]: 无法读取布局清单: %v\n", s.runID, err)
		return
	}
	expected := Layouts()
	sort.Strings(actual)
	sort.Strings(expected)
	if strings.Join(actual, ",") != strings.Join(expected, ",") {
		fmt.Printf("警告: 布局清单发生变化，法术力费用等按布局区分的聚合规则可能不再正确。已知 %v，实际 %v。\n", expected, actual)
	}
}

// addHardcodedCards 向目录注入固定的合成卡，使其在下游与真实卡无法区分
func addHardcodedCards(cards map[string]feed.CardRecord) {
	text := "{T}: Add one mana of any color to your mana pool.\nThis card is banned."
	manaCost := "{0}"
	cards["Gleemox"] = feed.CardRecord{
		Name:      "Gleemox",
		Layout:    "normal",
		ManaCost:  &manaCost,
		CMC:       0,
		Type:      "Artifact",
		Types:     []string{"Artifact"},
		Text:      &text,
		ImageName: "gleemox",
		Printings: []string{"PRM"},
		Rarity:    "Rare",
	}
}

// versionIsNewer 按语义化版本比较目录版本；本地从未同步过时视为过期
func versionIsNewer(current, stored string) bool {
	if stored == "" {
		return true
	}
	cv, sv := "v"+current, "v"+stored
	if !semver.IsValid(cv) || !semver.IsValid(sv) {
		// 无法按语义化版本比较时，只要不相等就认为有更新
		return current != stored
	}
	return semver.Compare(cv, sv) > 0
}
