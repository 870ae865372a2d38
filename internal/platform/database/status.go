package database

import (
	"fmt"
	"sync"
)

// statusManager 负责线程安全地维护Redis读缓存的可用状态。
// 卡牌数据的真实来源永远是SQLite/PostgreSQL；这里只回答
// "热缓存现在能不能用"，供读取路径和后台任务决定是否走Redis。
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
	lastKnownRunID string
}

// 全局的状态管理器实例
var globalStatus = &statusManager{
	isRedisHealthy: true, // 启动流程会先阻塞确认Redis可用，默认视为健康
}

// IsRedisHealthy 返回卡牌热缓存当前是否可用。
// 为false时卡牌查询回退到_cache_card表，同步调度器跳过热重建。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// SetInitialRunID 在启动时记录Redis的初始run_id，作为后续重启检测的基准。
func SetInitialRunID(runID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.lastKnownRunID = runID
}

// UpdateStatus 由健康检查器在每轮检查后调用，更新可用状态。
func UpdateStatus(isHealthy bool, newRunID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	// 只有当状态发生变化时才打印日志
	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			fmt.Println("健康检查: 卡牌热缓存已恢复，读取重新走Redis。")
		} else {
			fmt.Println("健康检查警告: 卡牌热缓存不可用，读取回退到数据库缓存表。")
		}
	}

	// 只有在健康状态下，才更新已知的run_id；
	// 不健康时保留旧值，等缓存预热成功后再接受新的run_id
	if isHealthy {
		globalStatus.lastKnownRunID = newRunID
	}
}

// GetLastKnownRunID 返回最近一次确认健康时的Redis run_id。
// run_id变化意味着Redis重启过，内存里的卡牌缓存已经丢失。
func GetLastKnownRunID() string {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.lastKnownRunID
}
