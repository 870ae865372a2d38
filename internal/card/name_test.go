package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnaccent(t *testing.T) {
	assert.Equal(t, "Lim-Dul's Vault", Unaccent("Lim-Dûl's Vault"))
	assert.Equal(t, "Jotun Grunt", Unaccent("Jötun Grunt"))
	assert.Equal(t, "Seance", Unaccent("Séance"))
	// 无变音符号的名称原样返回
	assert.Equal(t, "Island", Unaccent("Island"))
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "lim-dul's vault", Canonicalize("  Lim-Dûl's Vault "))
	assert.Equal(t, "fire // ice", Canonicalize("Fire // Ice"))
	assert.Equal(t, "", Canonicalize("   "))
}
