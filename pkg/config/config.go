package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LyricsDir              string        `json:"lyrics_dir"`               // 监听的歌词目录
	ExportDir              string        `json:"export_dir"`               // 规范化 LRC 输出目录，EXPORT_DIR=off 时为空，不导出
	DataDir                string        `json:"data_dir"`                 // SQLite数据库文件存放目录
	DBFileName             string        `json:"db_file_name"`             // SQLite数据库文件名
	DBPath                 string        `json:"-"`                        // 完整的数据库文件路径
	MatchTolerance         time.Duration `json:"match_tolerance"`          // 翻译/罗马音匹配容差
	DefaultTrackDuration   time.Duration `json:"default_track_duration"`   // 未知歌曲时长时使用的时长
	StabilityCheckInterval time.Duration `json:"stability_check_interval"` // 每次检查的间隔
	StabilityQuietDuration time.Duration `json:"stability_quiet_duration"` // 文件在多长时间内没有变化才算稳定
	StabilityMaxWait       time.Duration `json:"stability_max_wait"`       // 最长等待文件稳定的时间
	ConvertT2S             bool          `json:"convert_t2s"`              // 是否将繁体歌词转换为简体
	HTTPAddr               string        `json:"http_addr"`                // HTTP 服务监听地址
	Workers                int           `json:"workers"`                  // 并发处理歌词的数量
}

const (
	lyricsDir = "/app/lyrics"
	exportDir = "/app/export"
	dataDir   = "/app/data"

	exportDisabled = "off" // EXPORT_DIR 取该值时关闭导出

	dbFileName = "lyrics.db"
	httpAddr   = ":8080"
	workers    = 4

	matchTolerance = 100 * time.Millisecond

	// 文件稳定性检查相关参数
	stabilityCheckInterval = 2 * time.Second  // 每次检查的间隔
	stabilityQuietDuration = 5 * time.Second  // 文件在多长时间内没有变化才算稳定
	stabilityMaxWait       = 10 * time.Minute // 最长等待文件稳定的时间
)

// LoadConfig 从环境变量或默认值加载配置
func LoadConfig() (*Config, error) {
	// 尝试加载 .env 文件
	_ = godotenv.Load()

	cfg := &Config{
		LyricsDir:              os.Getenv("LYRICS_DIR"),
		ExportDir:              os.Getenv("EXPORT_DIR"),
		DataDir:                os.Getenv("DATA_DIR"),
		DBFileName:             os.Getenv("DB_FILE_NAME"),
		MatchTolerance:         parseDurationOrDefault(os.Getenv("MATCH_TOLERANCE"), matchTolerance),
		DefaultTrackDuration:   parseDurationOrDefault(os.Getenv("DEFAULT_TRACK_DURATION"), 0),
		StabilityCheckInterval: parseDurationOrDefault(os.Getenv("STABILITY_CHECK_INTERVAL"), stabilityCheckInterval),
		StabilityQuietDuration: parseDurationOrDefault(os.Getenv("STABILITY_QUIET_DURATION"), stabilityQuietDuration),
		StabilityMaxWait:       parseDurationOrDefault(os.Getenv("STABILITY_MAX_WAIT"), stabilityMaxWait),
		ConvertT2S:             parseBoolOrDefault(os.Getenv("CONVERT_T2S"), false),
		HTTPAddr:               os.Getenv("HTTP_ADDR"),
		Workers:                parseIntOrDefault(os.Getenv("WORKERS"), workers),
	}

	// 设置默认值
	if cfg.LyricsDir == "" {
		cfg.LyricsDir = lyricsDir
	}
	switch strings.ToLower(strings.TrimSpace(cfg.ExportDir)) {
	case "":
		cfg.ExportDir = exportDir
	case exportDisabled, "none", "-":
		cfg.ExportDir = ""
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.DBFileName == "" {
		cfg.DBFileName = dbFileName
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = httpAddr
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, cfg.DBFileName)
	// 确认目录存在
	if err := os.MkdirAll(cfg.LyricsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lyrics directory %s: %w", cfg.LyricsDir, err)
	}
	if cfg.ExportDir != "" {
		if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory %s: %w", cfg.ExportDir, err)
		}
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", cfg.DataDir, err)
	}
	log.Printf("Configuration loaded: LyricsDir=%s, ExportDir=%s, DataDir=%s, DBPath=%s",
		cfg.LyricsDir, cfg.ExportDir, cfg.DataDir, cfg.DBPath)
	return cfg, nil
}

// ToleranceMs 以毫秒返回匹配容差
func (c *Config) ToleranceMs() int64 {
	return c.MatchTolerance.Milliseconds()
}

func parseDurationOrDefault(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: Could not parse duration '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return d
}

func parseBoolOrDefault(s string, defaultValue bool) bool {
	if s == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Warning: Could not parse bool '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return b
}

func parseIntOrDefault(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Warning: Could not parse int '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return n
}
