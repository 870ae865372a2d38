package card

import (
	"strings"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
)

// 这个文件是卡牌数据库的模式描述器：四种实体（card/face/set/printing）
// 每一列的存储类型、可空性、唯一性、外键、默认值、是否来自上游数据源，
// 以及读取时如何从多个face行聚合出一个逻辑值。
// 建表语句和导入语句都从这里取列清单，不做任何反射。

// StorageType 是列的存储类型；布尔和日期都按整数落库
type StorageType string

const (
	TypeBoolean StorageType = "INTEGER"
	TypeDate    StorageType = "INTEGER"
	TypeInteger StorageType = "INTEGER"
	TypeReal    StorageType = "REAL"
	TypeText    StorageType = "TEXT"
)

// ForeignKey 描述一列引用的目标表和列
type ForeignKey struct {
	Table  string
	Column string
}

// Property 描述一个实体的一列
type Property struct {
	Name       string
	Type       StorageType
	Nullable   bool
	PrimaryKey bool
	Unique     bool
	// FromFeed 表示该列的值由上游数据源直接提供；
	// 为false的列要么是计算出来的，要么是纯存储列
	FromFeed   bool
	ForeignKey *ForeignKey
	Default    string
	// Select 是读取时的投影表达式模板，{table}和{column}为占位符。
	// 投影查询据此从1..N个face行重建出一个逻辑卡牌的字段。
	Select string
}

// RenderSelect 渲染该列的投影表达式
func (p Property) RenderSelect(table string) string {
	r := strings.NewReplacer("{table}", table, "{column}", p.Name)
	return r.Replace(p.Select) + " AS " + p.Name
}

func baseProperty(name string) Property {
	return Property{
		Name:     name,
		Type:     TypeText,
		Nullable: true,
		FromFeed: true,
		Select:   "{table}.{column}",
	}
}

// firstFaceAggregate 只取position=1的face的值
// 空字符串占位让GROUP_CONCAT在其他face上不产生内容
func firstFaceAggregate(column string) string {
	return database.GroupConcat("CASE WHEN {table}.position = 1 THEN "+column+" ELSE '' END", "")
}

// CardProperties 返回card表的全部列，按建表顺序排列
func CardProperties() []Property {
	id := baseProperty("id")
	id.Type = TypeInteger
	id.Nullable = false
	id.PrimaryKey = true
	id.FromFeed = false

	layout := baseProperty("layout")
	layout.Nullable = false

	return []Property{id, layout}
}

// FaceProperties 返回face表的全部列，按建表顺序排列。
// name/mana_cost/cmc/text四列的聚合策略承担了多面卡的全部读取语义：
//   - name: 双面卡只取正面；融合卡取position 1和2；其余用 " // " 连接全部face
//   - mana_cost: 带Fuse提示语的连体卡无分隔拼接全部费用；其他连体卡为NULL；其余只取正面
//   - cmc: 用 | 连接全部face的值，由调用方拆分
//   - text: 用 \n-----\n 连接全部face的文本
func FaceProperties() []Property {
	names := []string{
		"id", "name", "mana_cost", "cmc", "power", "toughness", "loyalty",
		"type", "text", "search_text", "image_name", "hand", "life",
		"starter", "position", "name_ascii", "card_id",
	}
	props := make([]Property, 0, len(names))
	for _, n := range names {
		p := baseProperty(n)
		p.Select = firstFaceAggregate("{table}.{column}")
		props = append(props, p)
	}

	byName := make(map[string]*Property, len(props))
	for i := range props {
		byName[props[i].Name] = &props[i]
	}

	for _, n := range []string{"id", "position", "name_ascii", "search_text", "card_id"} {
		byName[n].FromFeed = false
	}
	for _, n := range []string{"id", "name", "type"} {
		byName[n].Nullable = false
	}
	for _, n := range []string{"id", "card_id", "hand", "life", "starter", "position"} {
		byName[n].Type = TypeInteger
	}
	byName["id"].PrimaryKey = true
	byName["cmc"].Type = TypeReal

	byName["name"].Select = nameSelect("face_name")
	byName["name_ascii"].Select = nameSelect("{table}.name_ascii")
	byName["mana_cost"].Select = "CASE\n" +
		"            WHEN layout IN ('split') AND {table}.text LIKE '%" + FuseReminderText + "%' THEN\n" +
		"                " + database.GroupConcat("{table}.{column}", "") + "\n" +
		"            WHEN layout IN ('split') THEN\n" +
		"                NULL\n" +
		"            ELSE\n" +
		"                " + firstFaceAggregate("{table}.{column}") + "\n" +
		"        END"
	byName["cmc"].Select = database.GroupConcat("{table}.{column}", "|")
	byName["text"].Select = database.GroupConcat("{table}.{column}", "\n-----\n")
	byName["card_id"].ForeignKey = &ForeignKey{Table: "card", Column: "id"}

	return props
}

// SetProperties 返回set表的全部列，按建表顺序排列
func SetProperties() []Property {
	names := []string{
		"id", "name", "code", "gatherer_code", "old_code",
		"magiccardsinfo_code", "release_date", "border", "type", "online_only",
	}
	props := make([]Property, 0, len(names))
	for _, n := range names {
		props = append(props, baseProperty(n))
	}

	byName := make(map[string]*Property, len(props))
	for i := range props {
		byName[props[i].Name] = &props[i]
	}

	for _, n := range []string{"id", "name", "code", "release_date", "border", "type"} {
		byName[n].Nullable = false
	}
	byName["id"].PrimaryKey = true
	byName["id"].Type = TypeInteger
	byName["id"].FromFeed = false
	byName["release_date"].Type = TypeDate
	byName["online_only"].Type = TypeBoolean
	for _, n := range []string{"name", "code", "gatherer_code", "old_code", "magiccardsinfo_code"} {
		byName[n].Unique = true
	}

	return props
}

// PrintingProperties 返回printing表的全部列，按建表顺序排列
func PrintingProperties() []Property {
	names := []string{
		"id", "system_id", "rarity", "flavor", "artist", "number",
		"multiverseid", "watermark", "border", "timeshifted", "reserved",
		"mci_number", "card_id", "set_id", "rarity_id",
	}
	props := make([]Property, 0, len(names))
	for _, n := range names {
		props = append(props, baseProperty(n))
	}

	byName := make(map[string]*Property, len(props))
	for i := range props {
		byName[props[i].Name] = &props[i]
	}

	for _, n := range []string{"id", "system_id", "rarity", "artist", "card_id", "set_id"} {
		byName[n].Nullable = false
	}
	for _, n := range []string{"id", "card_id", "set_id", "rarity_id"} {
		byName[n].Type = TypeInteger
		byName[n].FromFeed = false
	}
	byName["id"].PrimaryKey = true
	byName["timeshifted"].Type = TypeBoolean
	byName["reserved"].Type = TypeBoolean
	byName["card_id"].ForeignKey = &ForeignKey{Table: "card", Column: "id"}
	byName["set_id"].ForeignKey = &ForeignKey{Table: "set", Column: "id"}
	byName["rarity_id"].ForeignKey = &ForeignKey{Table: "rarity", Column: "id"}

	return props
}

// nameSelect 生成按布局区分的名称聚合表达式
func nameSelect(column string) string {
	return "CASE\n" +
		"        WHEN layout = 'double-faced' THEN\n" +
		"            " + database.GroupConcat("CASE WHEN {table}.position = 1 THEN "+column+" ELSE '' END", "") + "\n" +
		"        WHEN layout = 'meld' THEN\n" +
		"            " + database.GroupConcat("CASE WHEN {table}.position = 1 OR {table}.position = 2 THEN "+column+" ELSE '' END", "") + "\n" +
		"        ELSE\n" +
		"            " + database.GroupConcat(column, " // ") + "\n" +
		"    END"
}

// FeedColumns 过滤出由上游提供的列名
func FeedColumns(props []Property) []string {
	var out []string
	for _, p := range props {
		if p.FromFeed {
			out = append(out, p.Name)
		}
	}
	return out
}

// NonPrimaryKeyColumns 过滤出非主键的列名
func NonPrimaryKeyColumns(props []Property) []string {
	var out []string
	for _, p := range props {
		if !p.PrimaryKey {
			out = append(out, p.Name)
		}
	}
	return out
}
