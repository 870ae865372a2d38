package cardapi

import (
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
)

// PrimeModule 负责初始化cardapi模块：
// 加载模糊匹配词表并把缓存表预热到Redis
func PrimeModule() error {
	if err := ReloadMatcher(database.DB); err != nil {
		return err
	}
	return WarmupCache()
}
