package scheduler

import (
	"fmt"
	"time"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/multiverse"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/metadata"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/startup"
	"github.com/SlpAus/penny-dreadful-cards-backend/pkg/lifecycle"
)

const resyncInterval = 1 * time.Hour // 定时检查上游目录版本的频率

// StartResyncScheduler 启动一个后台Goroutine来定期检查上游目录版本并同步。
// 它接收一个lifecycle.Handle来管理其生命周期
func StartResyncScheduler(handle *lifecycle.Handle, source feed.Source) {
	defer handle.Close() // 确保在退出时通知管理器
	fmt.Println("目录同步调度器已启动。")

	for {
		// 使用可中断的休眠来代替ticker。
		// 这使得整个循环可以在收到停机信号时立刻从休眠中唤醒并退出。
		if err := handle.Sleep(resyncInterval); err != nil {
			fmt.Printf("同步调度器: 休眠被中断，正在关闭...\n")
			return
		}

		if !database.IsRedisHealthy() {
			fmt.Println("同步调度器: 检测到Redis不可用，跳过本次同步。")
			continue
		}

		versionBefore, err := metadata.GetCatalogVersion(database.DB)
		if err != nil {
			fmt.Printf("同步调度器错误: 无法读取本地目录版本: %v\n", err)
			continue
		}

		syncer := multiverse.NewSyncer(database.DB, source)
		if err := syncer.Resync(); err != nil {
			fmt.Printf("同步调度器错误: 定时同步失败: %v\n", err)
			continue
		}

		versionAfter, err := metadata.GetCatalogVersion(database.DB)
		if err != nil {
			fmt.Printf("同步调度器错误: 无法读取同步后目录版本: %v\n", err)
			continue
		}

		// 版本戳变化说明目录真的更新了，读取侧需要热重建
		if versionAfter != versionBefore {
			if err := startup.RebuildCache(); err != nil {
				fmt.Printf("同步调度器错误: 同步后缓存热重建失败: %v\n", err)
			}
		}
	}
}
