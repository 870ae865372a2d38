package multiverse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/card"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/feed"
	"gorm.io/gorm"
)

// reminderText 匹配规则文本中括号括起来的提示语
var reminderText = regexp.MustCompile(`\([^\)]+\)`)

// textBackfillLayouts 列出文本缺失时应回填为空串的布局。
// 上游对个别卡把text给成null而不是''，对这些布局显然不对
var textBackfillLayouts = map[string]bool{
	"normal":       true,
	"token":        true,
	"double-faced": true,
	"split":        true,
	"aftermath":    true,
}

// identityKey 计算目录条目的卡牌身份键，共享同一个键的条目归入同一个Card。
// 融合卡的"已融合"面归入names首位的正面；其余布局用 " // " 连接全部面名
func identityKey(c feed.CardRecord) string {
	if c.Layout == "meld" {
		if len(c.Names) >= 3 && c.Name == c.Names[2] {
			return c.Names[0]
		}
		return c.Name
	}
	if len(c.Names) > 0 {
		return strings.Join(c.Names, " // ")
	}
	return c.Name
}

// insertCard 为一个目录条目确保Card行存在，并插入对应的Face行及各连接表。
// Card的id在一次运行内通过身份键缓存保持稳定
func (s *Syncer) insertCard(tx *gorm.DB, c feed.CardRecord) error {
	key := identityKey(c)
	cardID, ok := s.cardIDs[key]
	if !ok {
		var id int64
		err := tx.Raw("INSERT INTO card (layout) VALUES (?) RETURNING id", c.Layout).Scan(&id).Error
		if err != nil {
			return fmt.Errorf("无法插入card %q: %w", key, err)
		}
		cardID = id
		s.cardIDs[key] = cardID
	}

	if err := s.insertFace(tx, c, cardID); err != nil {
		return err
	}

	for _, color := range c.Colors {
		if err := s.insertCardColor(tx, "card_color", cardID, "name", color); err != nil {
			return err
		}
	}
	for _, symbol := range c.ColorIdentity {
		if err := s.insertCardColor(tx, "card_color_identity", cardID, "symbol", symbol); err != nil {
			return err
		}
	}
	for _, supertype := range c.Supertypes {
		err := tx.Exec("INSERT INTO card_supertype (card_id, supertype) VALUES (?, ?)", cardID, supertype).Error
		if err != nil {
			return fmt.Errorf("无法插入card_supertype: %w", err)
		}
	}
	for _, subtype := range c.Subtypes {
		err := tx.Exec("INSERT INTO card_subtype (card_id, subtype) VALUES (?, ?)", cardID, subtype).Error
		if err != nil {
			return fmt.Errorf("无法插入card_subtype: %w", err)
		}
	}
	// 这里是上游自己声明的各格式合法性，与计算出的Penny Dreadful合法性无关
	for _, info := range c.Legalities {
		formatID, err := s.formatID(tx, info.Format, true)
		if err != nil {
			return err
		}
		err = tx.Exec("INSERT INTO card_legality (card_id, format_id, legality) VALUES (?, ?, ?)",
			cardID, formatID, info.Legality).Error
		if err != nil {
			return fmt.Errorf("无法插入card_legality: %w", err)
		}
	}
	return nil
}

// insertFace 插入一个Face行。列顺序严格跟随模式描述器的非主键列清单
func (s *Syncer) insertFace(tx *gorm.DB, c feed.CardRecord, cardID int64) error {
	text := c.Text
	if text == nil && textBackfillLayouts[c.Layout] {
		empty := ""
		text = &empty
	}

	var searchText interface{}
	if text != nil {
		searchText = reminderText.ReplaceAllString(*text, "")
	}

	position := 1
	if len(c.Names) > 0 {
		position = 0
		for i, n := range c.Names {
			if n == c.Name {
				position = i + 1
				break
			}
		}
		// names不含自身说明上游目录已经损坏，继续插入会产生两个位置1的face
		if position == 0 {
			return fmt.Errorf("目录条目 %q 的names列表 %v 不包含自身，无法确定face位置", c.Name, c.Names)
		}
	}

	cols := card.NonPrimaryKeyColumns(card.FaceProperties())
	sql := "INSERT INTO face (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ")"
	// 顺序: name, mana_cost, cmc, power, toughness, loyalty, type, text,
	//       search_text, image_name, hand, life, starter, position, name_ascii, card_id
	values := []interface{}{
		c.Name,
		c.ManaCost,
		c.CMC,
		c.Power,
		c.Toughness,
		c.Loyalty,
		c.Type,
		textValue(text),
		searchText,
		c.ImageName,
		c.Hand,
		c.Life,
		c.Starter,
		position,
		card.Unaccent(c.Name),
		cardID,
	}
	if err := tx.Exec(sql, values...).Error; err != nil {
		// 把肇事记录打出来再中止整个事务
		fmt.Printf("插入face失败的记录: %+v\n", c)
		return fmt.Errorf("无法插入face %q: %w", c.Name, err)
	}
	return nil
}

// insertCardColor 向颜色连接表插入一行。
// 多面卡会在不同face上重复同一个颜色，重复插入被忽略而不是报错
func (s *Syncer) insertCardColor(tx *gorm.DB, table string, cardID int64, lookupColumn, value string) error {
	var colorID int64
	err := tx.Raw("SELECT id FROM color WHERE "+lookupColumn+" = ?", value).Scan(&colorID).Error
	if err != nil {
		return fmt.Errorf("无法查询color表: %w", err)
	}
	if colorID == 0 {
		fmt.Printf("同步[%s]: 未知颜色 %q，跳过。\n", s.runID, value)
		return nil
	}
	err = tx.Exec("INSERT INTO "+table+" (card_id, color_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, colorID).Error
	if err != nil {
		return fmt.Errorf("无法插入%s: %w", table, err)
	}
	return nil
}

func textValue(text *string) interface{} {
	if text == nil {
		return nil
	}
	return *text
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
