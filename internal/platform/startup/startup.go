package startup

import (
	"fmt"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/cardapi"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/multiverse"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/metadata"
)

// InitializeApplication 是应用首次启动时执行的总入口：
// 迁移表结构，按版本检查同步目录，然后预热读取侧
func InitializeApplication(source feed.Source) error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeDB(database.DB); err != nil {
		return err
	}
	if err := multiverse.EnsureSchema(database.DB); err != nil {
		return err
	}

	syncer := multiverse.NewSyncer(database.DB, source)
	if err := syncer.Resync(); err != nil {
		return err
	}

	if err := cardapi.PrimeModule(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	err := func() error {
		cardapi.LockRepository()
		defer cardapi.UnlockRepository()

		if err := cardapi.ReloadMatcher(database.DB); err != nil {
			return err
		}
		return cardapi.WarmupCache()
	}()
	if err != nil {
		return err
	}

	fmt.Println("缓存热重建完成！")
	return nil
}
