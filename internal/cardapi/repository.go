package cardapi

import (
	"fmt"
	"sync"

	"github.com/SlpAus/penny-dreadful-cards-backend/pkg/fuzzy"
	"gorm.io/gorm"
)

// --- In-memory Repository ---

// repository 是cardapi模块的中央数据仓库：
// 持有从fuzzy_word表加载的近似匹配器，启动或缓存重建后整体换新
type repository struct {
	matcher *fuzzy.Matcher
	rwLock  sync.RWMutex
}

// globalRepository 是仓库的私有单例实例
var globalRepository = &repository{}

// LockRepository 在大范围重建期间锁住仓库
func LockRepository() {
	globalRepository.rwLock.Lock()
}

// UnlockRepository 解锁仓库
func UnlockRepository() {
	globalRepository.rwLock.Unlock()
}

// ReloadMatcher 从fuzzy_word表重新加载近似匹配器。
// 调用方需要确保在安全的时机（启动或重建锁下）调用
func ReloadMatcher(db *gorm.DB) error {
	type wordRow struct {
		Word       string
		Rank       int
		Soundslike string
	}
	var rows []wordRow
	if err := db.Raw("SELECT word, rank, COALESCE(soundslike, '') AS soundslike FROM fuzzy_word").Scan(&rows).Error; err != nil {
		return fmt.Errorf("无法从fuzzy_word表加载词表: %w", err)
	}

	entries := make([]fuzzy.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, fuzzy.Entry{Word: r.Word, Rank: r.Rank, SoundsLike: r.Soundslike})
	}
	globalRepository.matcher = fuzzy.NewMatcher(entries)
	fmt.Printf("模糊匹配词表加载完成，共 %d 个词条。\n", len(entries))
	return nil
}

// matcher 返回当前的匹配器，可能为nil（尚未加载）
func matcher() *fuzzy.Matcher {
	globalRepository.rwLock.RLock()
	defer globalRepository.rwLock.RUnlock()
	return globalRepository.matcher
}
