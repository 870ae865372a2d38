package multiverse

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// updateBuggedCards 用上游的bug列表整体替换card_bug表。
// bug数据从不做增量比对：先全删再全插。
// 获取失败视为"本次没有更新"，保留现有数据
func (s *Syncer) updateBuggedCards(tx *gorm.DB) error {
	bugs, err := s.source.BuggedCards()
	if err != nil {
		fmt.Printf("同步[%s]: 获取bug列表失败，保留现有数据: %v\n", s.runID, err)
		return nil
	}
	if bugs == nil {
		return nil
	}

	if err := tx.Exec("DELETE FROM card_bug").Error; err != nil {
		return fmt.Errorf("无法清空card_bug表: %w", err)
	}

	for _, bug := range bugs {
		// bug跟踪源和卡牌目录可能短暂不一致，查不到的卡名跳过即可
		var cardID int64
		err := tx.Raw("SELECT card_id FROM face WHERE name = ?", bug.Card).Scan(&cardID).Error
		if err != nil {
			return fmt.Errorf("无法查询bug卡牌 %q: %w", bug.Card, err)
		}
		if cardID == 0 {
			fmt.Printf("同步[%s]: 未知的bug卡牌: %s\n", s.runID, bug.Card)
			continue
		}

		lastConfirmed, err := parseBugTimestamp(bug.LastUpdated)
		if err != nil {
			fmt.Printf("同步[%s]: bug卡牌 %q 的时间戳 %q 无法解析，跳过: %v\n", s.runID, bug.Card, bug.LastUpdated, err)
			continue
		}

		err = tx.Exec(
			"INSERT INTO card_bug (card_id, description, classification, last_confirmed, url, from_bug_blog) VALUES (?, ?, ?, ?, ?, ?)",
			cardID, bug.Description, bug.Category, lastConfirmed, bug.URL, bug.BugBlog,
		).Error
		if err != nil {
			return fmt.Errorf("无法插入card_bug: %w", err)
		}
	}
	return nil
}

// parseBugTimestamp 把 "2006-01-02 15:04:05" 形式的UTC时间解析成epoch秒
func parseBugTimestamp(s string) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
