package multiverse

import (
	"fmt"
	"strings"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/card"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"gorm.io/gorm"
)

// EnsureSchema 根据模式描述器建出全部卡牌相关的表并填充查找表。
// 四张实体表的DDL完全由card包的列元数据生成；
// 查找表、连接表和模糊索引表的结构在这里内联定义
func EnsureSchema(db *gorm.DB) error {
	pk := database.AutoIncrementPrimaryKey()
	stmts := []string{
		createTableDDL("card", card.CardProperties()),
		createTableDDL("face", card.FaceProperties()),
		createTableDDL("set", card.SetProperties()),
		createTableDDL("printing", card.PrintingProperties()),

		"CREATE TABLE IF NOT EXISTS color (id " + pk + ", name TEXT NOT NULL UNIQUE, symbol TEXT NOT NULL UNIQUE)",
		"CREATE TABLE IF NOT EXISTS rarity (id " + pk + ", name TEXT NOT NULL UNIQUE)",
		"CREATE TABLE IF NOT EXISTS format (id " + pk + ", name TEXT NOT NULL UNIQUE)",

		"CREATE TABLE IF NOT EXISTS card_color (id " + pk + ", card_id INTEGER NOT NULL REFERENCES card (id), color_id INTEGER NOT NULL REFERENCES color (id), UNIQUE (card_id, color_id))",
		"CREATE TABLE IF NOT EXISTS card_color_identity (id " + pk + ", card_id INTEGER NOT NULL REFERENCES card (id), color_id INTEGER NOT NULL REFERENCES color (id), UNIQUE (card_id, color_id))",
		"CREATE TABLE IF NOT EXISTS card_supertype (id " + pk + ", card_id INTEGER NOT NULL REFERENCES card (id), supertype TEXT NOT NULL)",
		"CREATE TABLE IF NOT EXISTS card_subtype (id " + pk + ", card_id INTEGER NOT NULL REFERENCES card (id), subtype TEXT NOT NULL)",
		"CREATE TABLE IF NOT EXISTS card_legality (id " + pk + ", card_id INTEGER NOT NULL REFERENCES card (id), format_id INTEGER NOT NULL REFERENCES format (id), legality TEXT)",
		"CREATE TABLE IF NOT EXISTS card_bug (id " + pk + ", card_id INTEGER NOT NULL REFERENCES card (id), description TEXT, classification TEXT, last_confirmed INTEGER, url TEXT, from_bug_blog INTEGER)",

		"CREATE TABLE IF NOT EXISTS fuzzy_word (id " + pk + ", word TEXT NOT NULL, rank INTEGER, soundslike TEXT)",
		"CREATE INDEX IF NOT EXISTS idx_fuzzy_word_word ON fuzzy_word (word)",
		"CREATE INDEX IF NOT EXISTS idx_face_name ON face (name)",
		"CREATE INDEX IF NOT EXISTS idx_face_card_id ON face (card_id)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("建表失败: %w", err)
		}
	}
	if err := seedLookupTables(db); err != nil {
		return err
	}
	fmt.Println("卡牌数据库表结构就绪。")
	return nil
}

// createTableDDL 从列元数据生成一张表的建表语句
func createTableDDL(table string, props []card.Property) string {
	var cols []string
	for _, p := range props {
		if p.PrimaryKey {
			cols = append(cols, p.Name+" "+database.AutoIncrementPrimaryKey())
			continue
		}
		col := p.Name + " " + string(p.Type)
		if !p.Nullable {
			col += " NOT NULL"
		}
		if p.Unique {
			col += " UNIQUE"
		}
		if p.Default != "" {
			col += " DEFAULT " + p.Default
		}
		if p.ForeignKey != nil {
			col += " REFERENCES " + quoteTable(p.ForeignKey.Table) + " (" + p.ForeignKey.Column + ")"
		}
		cols = append(cols, col)
	}
	return "CREATE TABLE IF NOT EXISTS " + quoteTable(table) + " (" + strings.Join(cols, ", ") + ")"
}

// seedLookupTables 填充颜色和稀有度查找表，重复执行无副作用
func seedLookupTables(db *gorm.DB) error {
	colors := [][2]string{
		{"White", "W"},
		{"Blue", "U"},
		{"Black", "B"},
		{"Red", "R"},
		{"Green", "G"},
	}
	for _, c := range colors {
		err := db.Exec("INSERT INTO color (name, symbol) VALUES (?, ?) ON CONFLICT DO NOTHING", c[0], c[1]).Error
		if err != nil {
			return fmt.Errorf("无法填充color表: %w", err)
		}
	}
	rarities := []string{"Basic Land", "Common", "Uncommon", "Rare", "Mythic Rare", "Special"}
	for _, r := range rarities {
		err := db.Exec("INSERT INTO rarity (name) VALUES (?) ON CONFLICT DO NOTHING", r).Error
		if err != nil {
			return fmt.Errorf("无法填充rarity表: %w", err)
		}
	}
	return nil
}

// quoteTable 处理 set 这种同时是SQL关键字的表名
func quoteTable(name string) string {
	if name == "set" {
		return database.QuoteIdentifier(name)
	}
	return name
}
