package cardapi

// 定义与卡牌读取相关的Redis键名
const (
	// InfoKey 是一个Redis Hash，键为规范化卡名，值为缓存行的JSON
	InfoKey = "card_info"
	// NamesKey 是一个Redis Set，存储全部规范化卡名
	NamesKey = "card_names"
)
