package multiverse

import (
	"fmt"
	"sort"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/rotation"
	"gorm.io/gorm"
)

// FormatName 是当前运营格式的名称；历史赛季格式在其后追加赛季代码
const FormatName = "Penny Dreadful"

// formatID 解析格式名对应的id，必要时创建，并在本次运行内缓存
func (s *Syncer) formatID(tx *gorm.DB, name string, allowCreate bool) (int64, error) {
	if s.formatIDs == nil {
		s.formatIDs = make(map[string]int64)
		type formatRow struct {
			ID   int64
			Name string
		}
		var rows []formatRow
		if err := tx.Raw("SELECT id, name FROM format").Scan(&rows).Error; err != nil {
			return 0, fmt.Errorf("无法读取format表: %w", err)
		}
		for _, r := range rows {
			s.formatIDs[r.Name] = r.ID
		}
	}
	if id, ok := s.formatIDs[name]; ok {
		return id, nil
	}
	if !allowCreate {
		return 0, nil
	}
	var id int64
	if err := tx.Raw("INSERT INTO format (name) VALUES (?) RETURNING id", name).Scan(&id).Error; err != nil {
		return 0, fmt.Errorf("无法创建格式 %q: %w", name, err)
	}
	s.formatIDs[name] = id
	return id, nil
}

// updateLegality 重算当前赛季和全部历史赛季的合法性事实。
// 历史赛季按时间顺序处理，遇到当前轮换的赛季代码即停止——
// 当前赛季的合法性走不带日期的运营格式
func (s *Syncer) updateLegality(tx *gorm.DB) error {
	if err := s.setLegalCards(tx, false, ""); err != nil {
		return err
	}
	current := rotation.Current().Code
	for _, code := range rotation.SeasonCodes() {
		if code == current {
			break
		}
		if err := s.setLegalCards(tx, false, code); err != nil {
			return err
		}
	}
	return nil
}

// setLegalCards 用上游的合法卡名列表重写一个格式的合法性事实。
// 列表获取失败或为空时什么都不做：一次瞬时的上游故障
// 不应该抹掉已有的合法性数据
func (s *Syncer) setLegalCards(tx *gorm.DB, force bool, season string) error {
	names, err := s.source.LegalCards(force, season)
	if err != nil {
		fmt.Printf("同步[%s]: 获取赛季 %q 的合法卡列表失败，保留现有数据: %v\n", s.runID, season, err)
		return nil
	}
	if len(names) == 0 || (len(names) == 1 && names[0] == "") {
		return nil
	}

	formatName := FormatName
	if season != "" {
		formatName = FormatName + " " + season
	}
	formatID, err := s.formatID(tx, formatName, true)
	if err != nil {
		return err
	}

	if err := tx.Exec("DELETE FROM card_legality WHERE format_id = ?", formatID).Error; err != nil {
		return fmt.Errorf("无法清空格式 %q 的合法性: %w", formatName, err)
	}

	baseQuery, err := s.BaseQuery(tx, "(1 = 1)")
	if err != nil {
		return err
	}
	insert := "INSERT INTO card_legality (format_id, card_id, legality)\n" +
		"SELECT " + formatIDLiteral(formatID) + ", bq.id, 'Legal'\n" +
		"FROM (" + baseQuery + ") AS bq\n" +
		"WHERE bq.name IN (?)"
	if err := tx.Exec(insert, names).Error; err != nil {
		return fmt.Errorf("无法写入格式 %q 的合法性: %w", formatName, err)
	}

	// 核对入库数量是否与列表一致；不一致只作为诊断信号输出
	var n int64
	err = tx.Raw("SELECT COUNT(*) FROM card_legality WHERE format_id = ?", formatID).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("无法核对格式 %q 的合法性数量: %w", formatName, err)
	}
	if int(n) != len(names) {
		fmt.Printf("同步[%s]: 格式 %q 入库了 %d 张合法卡，但列表长度是 %d。\n", s.runID, formatName, n, len(names))
		s.logLegalityDifference(tx, baseQuery, formatID, names)
	}
	return nil
}

// logLegalityDifference 输出请求列表与实际匹配列表的对称差，帮助运维定位
func (s *Syncer) logLegalityDifference(tx *gorm.DB, baseQuery string, formatID int64, names []string) {
	query := "SELECT bq.name FROM (" + baseQuery + ") AS bq " +
		"WHERE bq.id IN (SELECT card_id FROM card_legality WHERE format_id = ?)"
	var dbNames []string
	if err := tx.Raw(query, formatID).Scan(&dbNames).Error; err != nil {
		fmt.Printf("同步[%s]: 无法读取已入库的合法卡名: %v\n", s.runID, err)
		return
	}

	requested := make(map[string]bool, len(names))
	for _, n := range names {
		requested[n] = true
	}
	matched := make(map[string]bool, len(dbNames))
	for _, n := range dbNames {
		matched[n] = true
	}
	var diff []string
	for n := range requested {
		if !matched[n] {
			diff = append(diff, n)
		}
	}
	for n := range matched {
		if !requested[n] {
			diff = append(diff, n)
		}
	}
	sort.Strings(diff)
	fmt.Printf("同步[%s]: 合法卡列表对称差: %v\n", s.runID, diff)
}
