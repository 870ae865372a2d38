package multiverse

import (
	"strconv"
	"strings"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/card"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"gorm.io/gorm"
)

// 投影查询是"这张卡现在长什么样"的唯一事实来源：
// 把1..N个face行按模式描述器里的聚合规则折叠成每张卡一行，
// 再拼上每个格式的合法性串和bug串。
// 合法性比对和对外展示都必须走这里或它物化出来的缓存表。

// BugSeparator 是缓存行中多条bug之间的分隔符
const BugSeparator = "_SEPARATOR_"

// BaseQuery 返回带任意过滤条件的完整投影查询文本。
// where是对card/face连接的布尔表达式，参数值必须由调用方绑定
func (s *Syncer) BaseQuery(tx *gorm.DB, where string) (string, error) {
	pdFormatID, err := s.formatID(tx, FormatName, true)
	if err != nil {
		return "", err
	}
	return buildBaseQuery(pdFormatID, where), nil
}

// CachedQuery 返回对反规范化缓存表的同形查询，用于高频读取
func CachedQuery(where string) string {
	return "SELECT * FROM _cache_card AS c WHERE " + where
}

func buildBaseQuery(pdFormatID int64, where string) string {
	cardProps := card.CardProperties()
	faceProps := card.FaceProperties()

	var cardQueries []string
	for _, p := range cardProps {
		cardQueries = append(cardQueries, p.RenderSelect("u"))
	}
	var faceQueries []string
	for _, p := range faceProps {
		// 外层的id永远是card的id，card_id与它重复
		if p.Name == "id" || p.Name == "card_id" {
			continue
		}
		faceQueries = append(faceQueries, p.RenderSelect("u"))
	}

	var cardCols []string
	for _, p := range cardProps {
		cardCols = append(cardCols, "c."+p.Name)
	}
	var faceCols []string
	for _, p := range faceProps {
		if p.Name == "id" || p.Name == "name" || p.Name == "card_id" {
			continue
		}
		faceCols = append(faceCols, "f."+p.Name)
	}

	legalityExpr := database.GroupConcat(database.Concat("fo.name", "':'", "cl.legality"), ",")
	bugExpr := database.GroupConcat(database.Concat(
		"cb.description", "'|'", "cb.classification", "'|'",
		"cb.last_confirmed", "'|'", "cb.url", "'|'", "cb.from_bug_blog",
	), BugSeparator)

	var b strings.Builder
	b.WriteString("SELECT\n    ")
	b.WriteString(strings.Join(cardQueries, ",\n    "))
	b.WriteString(",\n    ")
	b.WriteString(strings.Join(faceQueries, ",\n    "))
	b.WriteString(",\n    ")
	b.WriteString(database.GroupConcat("face_name", "|") + " AS names")
	b.WriteString(",\n    legalities,\n    pd_legal,\n    bugs\n")
	b.WriteString("FROM (\n")
	b.WriteString("    SELECT " + strings.Join(cardCols, ", ") + ", " + strings.Join(faceCols, ", ") + ", f.name AS face_name,\n")
	b.WriteString("        pd_legal,\n        legalities\n")
	b.WriteString("    FROM card AS c\n")
	b.WriteString("    INNER JOIN face AS f ON c.id = f.card_id\n")
	b.WriteString("    LEFT JOIN (\n")
	b.WriteString("        SELECT cl.card_id,\n")
	b.WriteString("            SUM(CASE WHEN cl.format_id = " + formatIDLiteral(pdFormatID) + " THEN 1 ELSE 0 END) > 0 AS pd_legal,\n")
	b.WriteString("            " + legalityExpr + " AS legalities\n")
	b.WriteString("        FROM card_legality AS cl\n")
	b.WriteString("        LEFT JOIN format AS fo ON cl.format_id = fo.id\n")
	b.WriteString("        GROUP BY cl.card_id\n")
	b.WriteString("    ) AS cl ON cl.card_id = c.id\n")
	b.WriteString("    GROUP BY f.id\n")
	b.WriteString("    ORDER BY f.card_id, f.position\n")
	b.WriteString(") AS u\n")
	b.WriteString("LEFT JOIN (\n")
	b.WriteString("    SELECT cb.card_id, " + bugExpr + " AS bugs\n")
	b.WriteString("    FROM card_bug AS cb\n")
	b.WriteString("    GROUP BY cb.card_id\n")
	b.WriteString(") AS bugs ON u.id = bugs.card_id\n")
	b.WriteString("WHERE u.id IN (SELECT c.id FROM card AS c INNER JOIN face AS f ON c.id = f.card_id WHERE " + where + ")\n")
	b.WriteString("GROUP BY u.id")
	return b.String()
}

// formatIDLiteral 把format id内联进查询文本；id来自数据库自增列，无注入风险
func formatIDLiteral(id int64) string {
	return strconv.FormatInt(id, 10)
}
