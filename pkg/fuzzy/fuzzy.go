package fuzzy

import (
	"sort"
	"strings"
)

// Matcher 是一个内存中的近似名称匹配器。
// 底层存储引擎没有拼写纠错索引原语，所以匹配作为独立算法实现：
// 在同一份词表上做编辑距离，辅以显式的"读音相似"别名词条。

// Entry 是词表中的一个词条
type Entry struct {
	// Word 是小写的规范词
	Word string
	// Rank 表示该词对应的卡当前是否在格式中合法，合法的词条排名靠前
	Rank int
	// SoundsLike 是可选的别名，查询命中别名时解析到Word
	SoundsLike string
}

// Result 是一次查询的候选结果
type Result struct {
	Word     string
	Distance int
	Rank     int
}

// Matcher 持有只读词表，构建后并发安全
type Matcher struct {
	entries []Entry
}

// NewMatcher 用给定词表构建匹配器
func NewMatcher(entries []Entry) *Matcher {
	return &Matcher{entries: entries}
}

// Len 返回词表大小
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Match 返回与query最接近的至多limit个候选词。
// 排序规则：编辑距离升序，再按Rank降序，最后按字典序，保证结果稳定
func (m *Matcher) Match(query string, limit int) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	// 超过这个距离的候选没有意义，也为DP提供了剪枝上界
	maxDistance := len(query)/2 + 1

	var results []Result
	for _, e := range m.entries {
		d := bestDistance(query, e, maxDistance)
		if d > maxDistance {
			continue
		}
		results = append(results, Result{Word: e.Word, Distance: d, Rank: e.Rank})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		if results[i].Rank != results[j].Rank {
			return results[i].Rank > results[j].Rank
		}
		return results[i].Word < results[j].Word
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// bestDistance 取词本身和别名两者中更近的距离
func bestDistance(query string, e Entry, bound int) int {
	d := boundedLevenshtein(query, e.Word, bound)
	if e.SoundsLike != "" {
		if ad := boundedLevenshtein(query, strings.ToLower(e.SoundsLike), bound); ad < d {
			d = ad
		}
	}
	return d
}

// boundedLevenshtein 计算编辑距离，超过bound时提前返回bound+1。
// 使用滚动两行DP，空间O(len(b))
func boundedLevenshtein(a, b string, bound int) int {
	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > bound {
		return bound + 1
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
