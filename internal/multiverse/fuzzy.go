package multiverse

import (
	"fmt"

	"gorm.io/gorm"
)

// rebuildFuzzyIndex 重建模糊名称索引表。
// 词表来源有三层：
//  1. 投影里每张卡的聚合名称，rank为是否当前合法
//  2. 尚未作为词出现的单个face名，覆盖多名称卡的备选面名
//  3. 上游提供的显式昵称，作为"读音相似"词条指向规范名
//
// 近似匹配本身由pkg/fuzzy在这份词表上实现
func (s *Syncer) rebuildFuzzyIndex(tx *gorm.DB) error {
	pdFormatID, err := s.formatID(tx, FormatName, true)
	if err != nil {
		return err
	}

	if err := tx.Exec("DELETE FROM fuzzy_word").Error; err != nil {
		return fmt.Errorf("无法清空fuzzy_word表: %w", err)
	}

	baseQuery, err := s.BaseQuery(tx, "(1 = 1)")
	if err != nil {
		return err
	}
	insert := "INSERT INTO fuzzy_word (word, rank)\n" +
		"SELECT LOWER(bq.name), bq.pd_legal\n" +
		"FROM (" + baseQuery + ") AS bq"
	if err := tx.Exec(insert).Error; err != nil {
		return fmt.Errorf("无法写入模糊索引主词表: %w", err)
	}

	fid := formatIDLiteral(pdFormatID)
	insert = "INSERT INTO fuzzy_word (word, rank)\n" +
		"SELECT LOWER(f.name), SUM(CASE WHEN cl.format_id = " + fid + " THEN 1 ELSE 0 END) > 0\n" +
		"FROM face AS f\n" +
		"INNER JOIN card AS c ON f.card_id = c.id\n" +
		"LEFT OUTER JOIN card_legality AS cl ON cl.card_id = c.id AND cl.format_id = " + fid + "\n" +
		"WHERE LOWER(f.name) NOT IN (SELECT word FROM fuzzy_word)\n" +
		// 融合卡的同名face行会出现两次，按名称分组去重
		"GROUP BY LOWER(f.name)"
	if err := tx.Exec(insert).Error; err != nil {
		return fmt.Errorf("无法写入模糊索引face词表: %w", err)
	}

	aliases, err := s.source.CardAliases()
	if err != nil {
		fmt.Printf("同步[%s]: 获取卡牌别名失败，跳过别名词条: %v\n", s.runID, err)
		return nil
	}
	for _, a := range aliases {
		err := tx.Exec("INSERT INTO fuzzy_word (word, rank, soundslike) VALUES (LOWER(?), 0, ?)",
			a.CanonicalName, a.Alias).Error
		if err != nil {
			return fmt.Errorf("无法写入别名词条 %q: %w", a.Alias, err)
		}
	}
	return nil
}
