package feed

// 上游数据源的记录类型。
// 宽松的JSON在进入系统的边界上被一次性转换成这些显式结构，
// 管线内部不再接触原始map。

// FormatLegality 是上游对某个格式给出的合法性声明
type FormatLegality struct {
	Format   string `json:"format"`
	Legality string `json:"legality"`
}

// CardRecord 是目录中一个条目（即一个面）的原始记录。
// 可空字段用指针表达，"字段缺失"和"字段为空"在导入规则里是不同的语义
type CardRecord struct {
	Name          string           `json:"name"`
	Names         []string         `json:"names"`
	Layout        string           `json:"layout"`
	ManaCost      *string          `json:"manaCost"`
	CMC           float64          `json:"cmc"`
	Power         *string          `json:"power"`
	Toughness     *string          `json:"toughness"`
	Loyalty       *string          `json:"loyalty"`
	Type          string           `json:"type"`
	Types         []string         `json:"types"`
	Subtypes      []string         `json:"subtypes"`
	Supertypes    []string         `json:"supertypes"`
	Text          *string          `json:"text"`
	Colors        []string         `json:"colors"`
	ColorIdentity []string         `json:"colorIdentity"`
	Legalities    []FormatLegality `json:"legalities"`
	ImageName     string           `json:"imageName"`
	Hand          *int             `json:"hand"`
	Life          *int             `json:"life"`
	Starter       *int             `json:"starter"`
	Printings     []string         `json:"printings"`
	Rarity        string           `json:"rarity"`
}

// SetRecord 是一个系列及其所有卡牌的原始记录
type SetRecord struct {
	Name               string            `json:"name"`
	Code               string            `json:"code"`
	GathererCode       *string           `json:"gathererCode"`
	OldCode            *string           `json:"oldCode"`
	MagicCardsInfoCode *string           `json:"magicCardsInfoCode"`
	ReleaseDate        string            `json:"releaseDate"`
	Border             string            `json:"border"`
	Type               string            `json:"type"`
	OnlineOnly         bool              `json:"onlineOnly"`
	Cards              []PrintingRecord  `json:"cards"`
}

// PrintingRecord 是系列中一张卡的印刷记录。
// 包含足够的身份信息（名称、多名称列表、布局）用于回查所属卡牌
type PrintingRecord struct {
	Name         string   `json:"name"`
	Names        []string `json:"names"`
	Layout       string   `json:"layout"`
	SystemID     string   `json:"id"`
	Rarity       string   `json:"rarity"`
	Flavor       *string  `json:"flavor"`
	Artist       string   `json:"artist"`
	Number       *string  `json:"number"`
	MultiverseID *int     `json:"multiverseid"`
	Watermark    *string  `json:"watermark"`
	Border       *string  `json:"border"`
	Timeshifted  *bool    `json:"timeshifted"`
	Reserved     *bool    `json:"reserved"`
	MCINumber    *string  `json:"mciNumber"`
}

// BugRecord 是bug跟踪源中一条已知bug的记录
type BugRecord struct {
	Card        string `json:"card"`
	Description string `json:"description"`
	Category    string `json:"category"`
	LastUpdated string `json:"last_updated"`
	URL         string `json:"url"`
	BugBlog     bool   `json:"bug_blog"`
}

// Alias 是一个常用昵称到规范卡名的映射
type Alias struct {
	Alias         string
	CanonicalName string
}

// Source 是核心管线依赖的上游数据源契约。
// 它只约定返回的形状，不约定传输方式
type Source interface {
	// CatalogVersion 返回当前目录版本号，可按语义化版本排序
	CatalogVersion() (string, error)
	// AllCards 返回规范键到卡牌记录的完整目录
	AllCards() (map[string]CardRecord, error)
	// AllSets 返回系列代码到系列记录的完整目录
	AllSets() (map[string]SetRecord, error)
	// LegalCards 返回某一赛季的合法卡名列表；season为空表示当前赛季
	LegalCards(force bool, season string) ([]string, error)
	// BuggedCards 返回当前已知的bug卡列表
	BuggedCards() ([]BugRecord, error)
	// CardAliases 返回昵称到规范名的列表
	CardAliases() ([]Alias, error)
}
