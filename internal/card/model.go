package card

import (
	"fmt"
	"strings"
)

// Card 是从投影查询或缓存表的一行构建出来的逻辑卡牌读取模型。
// names和cmc在存储层是用 | 连接的复合字段，这里拆开
type Card struct {
	ID        int64
	Layout    string
	Name      string
	Names     []string
	NameAscii string
	ManaCost  string
	CMCs      []string
	Power     string
	Toughness string
	Loyalty   string
	Type      string
	Text      string
	ImageName string
	// Legalities 是 "格式名:合法性" 对的拼接串，保持存储层原样
	Legalities string
	PDLegal    bool
	// Bugs 是以 _SEPARATOR_ 连接的bug描述串，保持存储层原样
	Bugs string
}

// FromRow 把一行投影/缓存查询结果转换为读取模型
func FromRow(row map[string]interface{}) Card {
	c := Card{
		ID:         asInt64(row["id"]),
		Layout:     asString(row["layout"]),
		Name:       asString(row["name"]),
		NameAscii:  asString(row["name_ascii"]),
		ManaCost:   asString(row["mana_cost"]),
		Power:      asString(row["power"]),
		Toughness:  asString(row["toughness"]),
		Loyalty:    asString(row["loyalty"]),
		Type:       asString(row["type"]),
		Text:       asString(row["text"]),
		ImageName:  asString(row["image_name"]),
		Legalities: asString(row["legalities"]),
		PDLegal:    asInt64(row["pd_legal"]) > 0,
		Bugs:       asString(row["bugs"]),
	}
	if names := asString(row["names"]); names != "" {
		c.Names = strings.Split(names, "|")
	} else {
		c.Names = []string{c.Name}
	}
	if cmc := asString(row["cmc"]); cmc != "" {
		c.CMCs = strings.Split(cmc, "|")
	}
	return c
}

// IsCreature 判断是否为生物牌
func (c Card) IsCreature() bool {
	return strings.Contains(c.Type, "Creature")
}

// IsLand 判断是否为地牌
func (c Card) IsLand() bool {
	return strings.Contains(c.Type, "Land")
}

// IsSpell 判断是否为咒语（非生物、非地）
func (c Card) IsSpell() bool {
	return !c.IsCreature() && !c.IsLand()
}

func asString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func asInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		var n int64
		fmt.Sscanf(string(x), "%d", &n)
		return n
	case string:
		var n int64
		fmt.Sscanf(x, "%d", &n)
		return n
	default:
		return 0
	}
}
