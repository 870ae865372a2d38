package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"` // "sqlite" 或 "postgres"
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的配置
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FeedConfig 定义了上游卡牌数据源的各个端点
type FeedConfig struct {
	// VersionURL 返回当前目录版本号的JSON端点
	VersionURL string `mapstructure:"versionUrl"`
	// CardsURL 返回完整卡牌目录的JSON端点
	CardsURL string `mapstructure:"cardsUrl"`
	// SetsURL 返回全部系列及其卡牌的JSON端点
	SetsURL string `mapstructure:"setsUrl"`
	// LegalCardsURL 返回当前可用卡列表的纯文本端点
	LegalCardsURL string `mapstructure:"legalCardsUrl"`
	// SeasonLegalCardsURL 是历史赛季可用卡列表的URL模板，%s会被替换为赛季代码
	SeasonLegalCardsURL string `mapstructure:"seasonLegalCardsUrl"`
	// BugBlogURL 是bug博客页面的地址，由goquery解析
	BugBlogURL string `mapstructure:"bugBlogUrl"`
	// AliasesPath 是本地别名文件的路径，每行为 "别名,规范名"
	AliasesPath string `mapstructure:"aliasesPath"`
}

// RotationConfig 定义了轮换相关的配置
type RotationConfig struct {
	// CurrentSeason 可以强制指定当前赛季代码，留空则按轮换时间表推算
	CurrentSeason string `mapstructure:"currentSeason"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config") // 文件名 (不带扩展名)
	v.SetConfigType("yaml")   // 文件类型

	// 2. 添加配置文件搜索路径
	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:8888
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 设置默认值，保证没有配置文件时也能启动
	setDefaults(v)

	// 5. 读取配置文件；文件不存在时继续使用默认值
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "cards.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("feed.versionUrl", "https://mtgjson.com/json/version.json")
	v.SetDefault("feed.cardsUrl", "https://mtgjson.com/json/AllCards.json")
	v.SetDefault("feed.setsUrl", "https://mtgjson.com/json/AllSets.json")
	v.SetDefault("feed.legalCardsUrl", "http://pdmtgo.com/legal_cards.txt")
	v.SetDefault("feed.seasonLegalCardsUrl", "http://pdmtgo.com/%s_legal_cards.txt")
	v.SetDefault("feed.bugBlogUrl", "https://pennydreadfulmtg.github.io/modo-bugs/")
	v.SetDefault("feed.aliasesPath", "./config/card_aliases.txt")

	v.SetDefault("rotation.currentSeason", "")
}
