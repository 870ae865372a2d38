package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRowSplitsCompositeFields(t *testing.T) {
	c := FromRow(map[string]interface{}{
		"id":       int64(7),
		"layout":   "split",
		"name":     "Fire // Ice",
		"names":    "Fire|Ice",
		"cmc":      "2.0|2.0",
		"type":     "Instant // Instant",
		"pd_legal": int64(1),
	})

	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Fire // Ice", c.Name)
	assert.Equal(t, []string{"Fire", "Ice"}, c.Names)
	assert.Equal(t, []string{"2.0", "2.0"}, c.CMCs)
	assert.True(t, c.PDLegal)
}

func TestFromRowSingleFaceDefaults(t *testing.T) {
	c := FromRow(map[string]interface{}{
		"id":     int64(1),
		"layout": "normal",
		"name":   "Gleemox",
	})

	// names缺失时退化为单元素列表
	assert.Equal(t, []string{"Gleemox"}, c.Names)
	assert.Empty(t, c.CMCs)
	assert.False(t, c.PDLegal)
}

func TestFromRowTolerantOfDriverTypes(t *testing.T) {
	// 不同驱动可能把数值列扫成[]byte或float64
	c := FromRow(map[string]interface{}{
		"id":       []byte("42"),
		"pd_legal": float64(1),
		"name":     []byte("Island"),
	})
	assert.Equal(t, int64(42), c.ID)
	assert.True(t, c.PDLegal)
	assert.Equal(t, "Island", c.Name)
}

func TestCardTypePredicates(t *testing.T) {
	creature := Card{Type: "Creature — Goblin"}
	land := Card{Type: "Basic Land — Island"}
	spell := Card{Type: "Instant"}
	artifactCreature := Card{Type: "Artifact Creature — Golem"}

	assert.True(t, creature.IsCreature())
	assert.False(t, creature.IsSpell())

	assert.True(t, land.IsLand())
	assert.False(t, land.IsSpell())

	assert.True(t, spell.IsSpell())
	assert.False(t, spell.IsCreature())
	assert.False(t, spell.IsLand())

	assert.True(t, artifactCreature.IsCreature())
	assert.False(t, artifactCreature.IsSpell())
}
