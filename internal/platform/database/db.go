package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver 标识当前使用的底层数据库
type Driver string

const (
	DriverSqlite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DB 是一个全局的数据库实例，供项目其他部分使用
var DB *gorm.DB

// activeDriver 记录InitDB选择的驱动，方言辅助函数依赖它
// 默认为SQLite，这样测试代码可以不经过InitDB直接使用方言函数
var activeDriver = DriverSqlite

// ActiveDriver 返回当前生效的数据库驱动
func ActiveDriver() Driver {
	return activeDriver
}

// InitDB 根据配置初始化数据库连接
func InitDB(cfg config.DatabaseConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	switch Driver(cfg.Driver) {
	case DriverPostgres:
		DB, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{Logger: newLogger})
		activeDriver = DriverPostgres
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.Sqlite.Path), &gorm.Config{Logger: newLogger})
		activeDriver = DriverSqlite
	}

	if err != nil {
		// 没有数据库就没有一切，直接panic退出
		panic("无法连接到数据库: " + err.Error())
	}

	fmt.Printf("数据库连接成功！(driver=%s)\n", activeDriver)
}
