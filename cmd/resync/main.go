package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/multiverse"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/config"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/metadata"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/rotation"
	"github.com/joho/godotenv"
)

// 管理命令：在不启动API服务器的情况下执行一次目录同步。
// 加 -force 可忽略本地版本戳强制全量重建。
func main() {
	force := flag.Bool("force", false, "忽略本地版本戳，强制全量重新同步")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("无法加载配置: %v\n", err)
		os.Exit(1)
	}

	database.InitDB(cfg.Database)
	rotation.SetCurrentOverride(cfg.Rotation.CurrentSeason)

	if err := metadata.PrimeDB(database.DB); err != nil {
		fmt.Printf("元数据表迁移失败: %v\n", err)
		os.Exit(1)
	}
	if err := multiverse.EnsureSchema(database.DB); err != nil {
		fmt.Printf("建表失败: %v\n", err)
		os.Exit(1)
	}

	syncer := multiverse.NewSyncer(database.DB, feed.NewHTTPSource(cfg.Feed))
	if *force {
		err = syncer.ForceResync()
	} else {
		err = syncer.Resync()
	}
	if err != nil {
		fmt.Printf("同步失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("同步完成。")
}
