package database

import (
	"errors"
	"time"

	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/metadata"
)

// ErrNotFound 表示记录不存在
var ErrNotFound = errors.New("lyric record not found")

// LyricRecord 是一首歌处理完成后保存的结果
type LyricRecord struct {
	Path        string            `json:"path"`        // 主歌词文件路径，作为唯一键
	Name        string            `json:"name"`        // 文件名（不含扩展名）
	Dialect     string            `json:"dialect"`     // 实际采用的主歌词格式
	Language    string            `json:"language"`    // 主歌词语言
	Fingerprint string            `json:"fingerprint"` // 原始文本指纹，用于判断是否需要重新处理
	Info        metadata.Info     `json:"info"`
	Metadata    map[string]string `json:"metadata"`
	Lines       []lyric.RichLine  `json:"lines"`
	ProcessedAt time.Time         `json:"processedAt"`
}

// LyricSummary 是列表查询返回的摘要，不含歌词行
type LyricSummary struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Dialect     string    `json:"dialect"`
	Language    string    `json:"language"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	LineCount   int       `json:"lineCount"`
	ProcessedAt time.Time `json:"processedAt"`
}

// LyricStore 定义歌词处理结果存储接口
type LyricStore interface {
	SaveLyric(rec *LyricRecord) error                   // 保存或覆盖一条记录
	GetLyric(path string) (*LyricRecord, error)         // 按路径读取记录，不存在时返回 ErrNotFound
	ListLyrics() ([]LyricSummary, error)                // 列出所有记录的摘要
	IsProcessed(path, fingerprint string) (bool, error) // 检查路径是否已按相同内容处理过
	Close() error                                       // 关闭数据库连接
}
