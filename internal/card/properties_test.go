package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propertyByName(t *testing.T, props []Property, name string) Property {
	t.Helper()
	for _, p := range props {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("没有找到列 %q", name)
	return Property{}
}

func TestFacePropertiesColumnOrder(t *testing.T) {
	props := FaceProperties()
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	// 导入语句按这个顺序绑定参数，顺序变化会导致数据错位
	assert.Equal(t, []string{
		"id", "name", "mana_cost", "cmc", "power", "toughness", "loyalty",
		"type", "text", "search_text", "image_name", "hand", "life",
		"starter", "position", "name_ascii", "card_id",
	}, names)
}

func TestFacePropertiesMetadata(t *testing.T) {
	props := FaceProperties()

	id := propertyByName(t, props, "id")
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.FromFeed)

	cardID := propertyByName(t, props, "card_id")
	require.NotNil(t, cardID.ForeignKey)
	assert.Equal(t, "card", cardID.ForeignKey.Table)
	assert.False(t, cardID.FromFeed)

	// 计算列不来自上游
	for _, n := range []string{"position", "name_ascii", "search_text"} {
		assert.False(t, propertyByName(t, props, n).FromFeed, n)
	}

	cmc := propertyByName(t, props, "cmc")
	assert.Equal(t, TypeReal, cmc.Type)
}

func TestFeedColumnsExcludeComputed(t *testing.T) {
	cols := FeedColumns(FaceProperties())
	assert.NotContains(t, cols, "id")
	assert.NotContains(t, cols, "position")
	assert.NotContains(t, cols, "name_ascii")
	assert.NotContains(t, cols, "search_text")
	assert.NotContains(t, cols, "card_id")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "mana_cost")
}

func TestNonPrimaryKeyColumns(t *testing.T) {
	cols := NonPrimaryKeyColumns(FaceProperties())
	assert.NotContains(t, cols, "id")
	assert.Contains(t, cols, "card_id")
	assert.Len(t, cols, len(FaceProperties())-1)
}

func TestNameSelectDistinguishesLayouts(t *testing.T) {
	sel := propertyByName(t, FaceProperties(), "name").Select
	assert.Contains(t, sel, "double-faced")
	assert.Contains(t, sel, "meld")
	assert.Contains(t, sel, " // ")
}

func TestManaCostSelectUsesFuseReminder(t *testing.T) {
	sel := propertyByName(t, FaceProperties(), "mana_cost").Select
	// 带Fuse提示语的连体卡拼接全部费用，普通连体卡为NULL
	assert.Contains(t, sel, FuseReminderText)
	assert.Contains(t, sel, "NULL")
}

func TestRenderSelect(t *testing.T) {
	p := Property{Name: "layout", Select: "{table}.{column}"}
	assert.Equal(t, "u.layout AS layout", p.RenderSelect("u"))
}

func TestSetPropertiesUniqueCodes(t *testing.T) {
	props := SetProperties()
	for _, n := range []string{"name", "code", "gatherer_code", "old_code", "magiccardsinfo_code"} {
		assert.True(t, propertyByName(t, props, n).Unique, n)
	}
	releaseDate := propertyByName(t, props, "release_date")
	assert.Equal(t, TypeDate, releaseDate.Type)
	assert.False(t, releaseDate.Nullable)
}

func TestPrintingPropertiesForeignKeys(t *testing.T) {
	props := PrintingProperties()
	assert.Equal(t, "card", propertyByName(t, props, "card_id").ForeignKey.Table)
	assert.Equal(t, "set", propertyByName(t, props, "set_id").ForeignKey.Table)
	assert.Equal(t, "rarity", propertyByName(t, props, "rarity_id").ForeignKey.Table)

	// 外键列和id都不来自上游，FeedColumns只剩原始印刷字段
	cols := FeedColumns(props)
	assert.NotContains(t, cols, "card_id")
	assert.NotContains(t, cols, "set_id")
	assert.NotContains(t, cols, "rarity_id")
	assert.Equal(t, "system_id", cols[0])
}

func TestCardPropertiesMinimal(t *testing.T) {
	props := CardProperties()
	require.Len(t, props, 2)
	assert.True(t, props[0].PrimaryKey)
	assert.Equal(t, "layout", props[1].Name)
	assert.False(t, props[1].Nullable)
}

func TestFirstFaceAggregateShape(t *testing.T) {
	sel := propertyByName(t, FaceProperties(), "power").Select
	// 非首face产生空串占位，聚合后只剩position=1的值
	assert.True(t, strings.Contains(sel, "position = 1"))
	assert.True(t, strings.Contains(sel, "ELSE ''"))
}
