package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/config"
)

// HTTPSource 通过HTTP实现Source契约。
// 目录和系列是JSON端点，合法卡列表是每行一个卡名的纯文本端点，
// bug列表从bug博客页面解析（见bugblog.go），别名来自本地文件
type HTTPSource struct {
	cfg    config.FeedConfig
	client *http.Client
}

// NewHTTPSource 创建一个带超时的HTTP数据源
func NewHTTPSource(cfg config.FeedConfig) *HTTPSource {
	return &HTTPSource{
		cfg: cfg,
		client: &http.Client{
			Timeout: 5 * time.Minute, // 完整目录体积很大
		},
	}
}

// CatalogVersion 获取上游目录的版本号
func (s *HTTPSource) CatalogVersion() (string, error) {
	body, err := s.get(s.cfg.VersionURL)
	if err != nil {
		return "", fmt.Errorf("无法获取目录版本: %w", err)
	}
	// 端点返回裸的JSON字符串，例如 "3.10.2"
	var version string
	if err := json.Unmarshal(body, &version); err != nil {
		return "", fmt.Errorf("无法解析目录版本: %w", err)
	}
	return version, nil
}

// AllCards 获取完整卡牌目录
func (s *HTTPSource) AllCards() (map[string]CardRecord, error) {
	body, err := s.get(s.cfg.CardsURL)
	if err != nil {
		return nil, fmt.Errorf("无法获取卡牌目录: %w", err)
	}
	var cards map[string]CardRecord
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, fmt.Errorf("无法解析卡牌目录: %w", err)
	}
	return cards, nil
}

// AllSets 获取全部系列
func (s *HTTPSource) AllSets() (map[string]SetRecord, error) {
	body, err := s.get(s.cfg.SetsURL)
	if err != nil {
		return nil, fmt.Errorf("无法获取系列目录: %w", err)
	}
	var sets map[string]SetRecord
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("无法解析系列目录: %w", err)
	}
	return sets, nil
}

// LegalCards 获取某一赛季的合法卡名列表。
// 列表获取失败或为空时由调用方决定跳过本次合法性重算
func (s *HTTPSource) LegalCards(force bool, season string) ([]string, error) {
	url := s.cfg.LegalCardsURL
	if season != "" {
		url = fmt.Sprintf(s.cfg.SeasonLegalCardsURL, season)
	}
	if force {
		url += "?v=" + fmt.Sprint(time.Now().Unix())
	}
	body, err := s.get(url)
	if err != nil {
		return nil, fmt.Errorf("无法获取合法卡列表: %w", err)
	}
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// CardAliases 从本地别名文件读取昵称映射，每行为 "别名,规范名"
func (s *HTTPSource) CardAliases() ([]Alias, error) {
	f, err := os.Open(s.cfg.AliasesPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开别名文件: %w", err)
	}
	defer f.Close()

	var aliases []Alias
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			continue
		}
		aliases = append(aliases, Alias{
			Alias:         strings.TrimSpace(parts[0]),
			CanonicalName: strings.TrimSpace(parts[1]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取别名文件失败: %w", err)
	}
	return aliases, nil
}

func (s *HTTPSource) get(url string) ([]byte, error) {
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("上游返回HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
