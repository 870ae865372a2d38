package multiverse

import (
	"fmt"
	"time"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/metadata"
	"gorm.io/gorm"
)

// RebuildCache 把完整投影物化成反规范化的_cache_card表，整体替换。
// 必须在目录同步和合法性计算全部提交之后运行：它是纯快照，
// 没有增量更新路径。独立事务保证缓存重建失败不影响已提交的目录，
// 旧缓存在新表建成前继续服务读流量
func (s *Syncer) RebuildCache() error {
	started := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		baseQuery, err := s.BaseQuery(tx, "(1 = 1)")
		if err != nil {
			return err
		}
		if err := tx.Exec("DROP TABLE IF EXISTS _cache_card").Error; err != nil {
			return fmt.Errorf("无法删除旧缓存表: %w", err)
		}
		if err := tx.Exec("CREATE TABLE _cache_card AS " + baseQuery).Error; err != nil {
			return fmt.Errorf("无法物化缓存表: %w", err)
		}
		return metadata.SetLastCacheRebuild(tx, time.Now())
	})
	if err != nil {
		return fmt.Errorf("缓存重建失败: %w", err)
	}
	fmt.Printf("缓存表重建完成，耗时 %v。\n", time.Since(started).Round(time.Millisecond))
	return nil
}
