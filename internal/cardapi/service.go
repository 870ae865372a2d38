package cardapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/card"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// ErrCardNotFound 表示按名称找不到卡牌
var ErrCardNotFound = errors.New("card not found")

// --- Service Functions ---

// LookupCard 按名称查找一张卡。
// 优先读Redis热缓存，Redis不可用或未命中时回退到SQLite缓存表
func LookupCard(name string) (card.Card, error) {
	key := card.Canonicalize(name)

	if database.IsRedisHealthy() && database.RDB != nil {
		data, err := database.RDB.HGet(database.Ctx, InfoKey, key).Result()
		if err == nil {
			var row map[string]interface{}
			if jsonErr := json.Unmarshal([]byte(data), &row); jsonErr == nil {
				return card.FromRow(row), nil
			}
		} else if err != redis.Nil {
			fmt.Printf("读取Redis卡牌缓存失败，回退到SQLite: %v\n", err)
		}
	}

	return lookupCardFromDB(key)
}

// lookupCardFromDB 从反规范化缓存表按规范化名称查找
func lookupCardFromDB(key string) (card.Card, error) {
	var rows []map[string]interface{}
	query := "SELECT * FROM _cache_card AS c WHERE LOWER(c.name_ascii) = ?"
	if err := database.DB.Raw(query, key).Find(&rows).Error; err != nil {
		return card.Card{}, fmt.Errorf("无法查询缓存表: %w", err)
	}
	if len(rows) == 0 {
		return card.Card{}, ErrCardNotFound
	}
	return card.FromRow(rows[0]), nil
}

// SearchResultDTO 是一次模糊查找的候选结果
type SearchResultDTO struct {
	Name     string
	Distance int
	PDLegal  bool
}

// SearchCard 用近似匹配解析一个可能拼错的卡名
func SearchCard(query string, limit int) ([]SearchResultDTO, error) {
	m := matcher()
	if m == nil {
		return nil, errors.New("模糊匹配词表尚未加载")
	}
	results := m.Match(card.Canonicalize(query), limit)
	out := make([]SearchResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResultDTO{
			Name:     r.Word,
			Distance: r.Distance,
			PDLegal:  r.Rank > 0,
		})
	}
	return out, nil
}

// WarmupCache 把反规范化缓存表整体预热到Redis。
// 注意：此函数不包含锁，调用方需要确保在安全的时机调用
func WarmupCache() error {
	var rows []map[string]interface{}
	if err := database.DB.Raw("SELECT * FROM _cache_card").Find(&rows).Error; err != nil {
		return fmt.Errorf("无法读取缓存表: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, InfoKey, NamesKey)

	for _, row := range rows {
		c := card.FromRow(row)
		key := card.Canonicalize(c.Name)
		rowJSON, err := json.Marshal(row)
		if err != nil {
			continue
		}
		pipe.HSet(database.Ctx, InfoKey, key, rowJSON)
		pipe.SAdd(database.Ctx, NamesKey, key)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热卡牌缓存到Redis失败: %w", err)
	}
	fmt.Printf("成功预热 %d 张卡牌到Redis。\n", len(rows))
	return nil
}
