package rotation

import (
	"sync"
	"time"
)

// Penny Dreadful的合法卡池随每个大系列的发售轮换一次。
// 每个赛季用该系列的三字母代码标识，轮换后冻结为历史赛季。

// Season 描述一个赛季：代码和开始（即轮换发生）的时间
type Season struct {
	Code      string
	StartedAt time.Time
}

// schedule 是按时间升序排列的完整赛季表
var schedule = []Season{
	{"EMN", date(2016, 7, 22)},
	{"KLD", date(2016, 9, 30)},
	{"AER", date(2017, 1, 20)},
	{"AKH", date(2017, 4, 28)},
	{"HOU", date(2017, 7, 14)},
	{"XLN", date(2017, 9, 29)},
	{"RIX", date(2018, 1, 19)},
}

var (
	mu       sync.RWMutex
	override string
)

// SetCurrentOverride 强制指定当前赛季代码，留空恢复按时间表推算。
// 由启动流程根据配置调用一次
func SetCurrentOverride(code string) {
	mu.Lock()
	defer mu.Unlock()
	override = code
}

// SeasonCodes 返回按时间顺序排列的全部赛季代码
func SeasonCodes() []string {
	codes := make([]string, len(schedule))
	for i, s := range schedule {
		codes[i] = s.Code
	}
	return codes
}

// Current 返回当前赛季：最后一个开始时间不晚于现在的赛季
func Current() Season {
	return currentAt(time.Now())
}

func currentAt(now time.Time) Season {
	mu.RLock()
	forced := override
	mu.RUnlock()
	if forced != "" {
		for _, s := range schedule {
			if s.Code == forced {
				return s
			}
		}
	}

	current := schedule[0]
	for _, s := range schedule {
		if s.StartedAt.After(now) {
			break
		}
		current = s
	}
	return current
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
