package card

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FuseReminderText 是连体卡共享费用的提示语。
// 投影查询靠它判断一张split卡的两半是否共用一个法术力费用。
const FuseReminderText = "Fuse (You may cast one or both halves of this card from your hand.)"

// unaccenter 先做NFD分解，去掉所有组合用变音符号，再重新组合
var unaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Unaccent 去掉名称中的变音符号，例如 "Lim-Dûl" -> "Lim-Dul"
func Unaccent(s string) string {
	out, _, err := transform.String(unaccenter, s)
	if err != nil {
		return s
	}
	return out
}

// Canonicalize 把卡牌名规范化为模糊查找用的键：去变音、去首尾空白、转小写
func Canonicalize(name string) string {
	return strings.ToLower(strings.TrimSpace(Unaccent(name)))
}
