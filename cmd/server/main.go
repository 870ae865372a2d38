package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/penny-dreadful-cards-backend/api"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/config"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/health"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/scheduler"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/shutdown"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/startup"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/rotation"
	"github.com/SlpAus/penny-dreadful-cards-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 文件是可选的，仅用于本地开发时注入环境变量
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)
	rotation.SetCurrentOverride(cfg.Rotation.CurrentSeason)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	source := feed.NewHTTPSource(cfg.Feed)
	if err := startup.InitializeApplication(source); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 4. 异步启动后台的持续健康检查器
	go health.StartRedisHealthCheck()

	// 5. 创建两阶段停机所需的生命周期管理器，并启动后台同步调度器
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()
	resyncHandle, err := gracefulMgr.NewServiceHandle("resync-scheduler")
	if err != nil {
		panic(fmt.Sprintf("无法创建同步调度器句柄: %v", err))
	}
	go scheduler.StartResyncScheduler(resyncHandle, source)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，并执行两阶段优雅停机
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
