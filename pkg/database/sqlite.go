package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteStore 是 LyricStore 接口的 SQLite 实现
type sqliteStore struct {
	db     *sql.DB
	logger *log.Logger
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS lyrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		dialect TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		artist TEXT NOT NULL DEFAULT '',
		fingerprint TEXT NOT NULL,
		info TEXT NOT NULL,
		metadata TEXT NOT NULL,
		lines TEXT NOT NULL,
		line_count INTEGER NOT NULL DEFAULT 0,
		processed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

const upsertSQL = `
	INSERT INTO lyrics (path, name, dialect, language, title, artist, fingerprint, info, metadata, lines, line_count, processed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		name = excluded.name,
		dialect = excluded.dialect,
		language = excluded.language,
		title = excluded.title,
		artist = excluded.artist,
		fingerprint = excluded.fingerprint,
		info = excluded.info,
		metadata = excluded.metadata,
		lines = excluded.lines,
		line_count = excluded.line_count,
		processed_at = excluded.processed_at
	`

// NewSQLiteStore 初始化 SQLite 数据库并返回 LyricStore 接口实例
func NewSQLiteStore(dataSourceName string, log *log.Logger) (LyricStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// 尝试创建表，如果不存在
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close() // 创建表失败也要关闭连接
		return nil, fmt.Errorf("failed to create lyrics table: %w", err)
	}
	log.Printf("SQLite database initialized at: %s", dataSourceName)
	return &sqliteStore{db: db, logger: log}, nil
}

// Close 关闭数据库连接
func (s *sqliteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.logger.Println("SQLite database connection closed.")
		return err
	}
	return nil
}

// SaveLyric 保存一条处理结果，路径相同时覆盖
func (s *sqliteStore) SaveLyric(rec *LyricRecord) error {
	info, err := json.Marshal(rec.Info)
	if err != nil {
		return fmt.Errorf("failed to encode info for %s: %w", rec.Path, err)
	}
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", rec.Path, err)
	}
	lines, err := json.Marshal(rec.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode lines for %s: %w", rec.Path, err)
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now()
	}
	_, err = s.db.Exec(upsertSQL,
		rec.Path, rec.Name, rec.Dialect, rec.Language, rec.Info.Title, rec.Info.Artist,
		rec.Fingerprint, string(info), string(meta), string(lines), len(rec.Lines), rec.ProcessedAt)
	if err != nil {
		s.logger.Printf("ERROR: Failed to save lyric %s: %v", rec.Path, err)
		return fmt.Errorf("failed to save lyric %s: %w", rec.Path, err)
	}
	s.logger.Printf("Lyric %s saved (%d lines).", rec.Path, len(rec.Lines))
	return nil
}

// GetLyric 按路径读取一条记录
func (s *sqliteStore) GetLyric(path string) (*LyricRecord, error) {
	var (
		rec               LyricRecord
		info, meta, lines string
	)
	err := s.db.QueryRow(
		"SELECT path, name, dialect, language, fingerprint, info, metadata, lines, processed_at FROM lyrics WHERE path = ?", path,
	).Scan(&rec.Path, &rec.Name, &rec.Dialect, &rec.Language, &rec.Fingerprint, &info, &meta, &lines, &rec.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lyric %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(info), &rec.Info); err != nil {
		return nil, fmt.Errorf("failed to decode info for %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(lines), &rec.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode lines for %s: %w", path, err)
	}
	return &rec, nil
}

// ListLyrics 按路径排序列出所有记录的摘要
func (s *sqliteStore) ListLyrics() ([]LyricSummary, error) {
	rows, err := s.db.Query("SELECT path, name, dialect, language, title, artist, line_count, processed_at FROM lyrics ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to list lyrics: %w", err)
	}
	defer rows.Close()

	summaries := []LyricSummary{}
	for rows.Next() {
		var sum LyricSummary
		if err := rows.Scan(&sum.Path, &sum.Name, &sum.Dialect, &sum.Language, &sum.Title, &sum.Artist, &sum.LineCount, &sum.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lyric summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// IsProcessed 检查路径是否已按相同指纹处理过
func (s *sqliteStore) IsProcessed(path, fingerprint string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM lyrics WHERE path = ? AND fingerprint = ?", path, fingerprint).Scan(&count)
	if err != nil {
		s.logger.Printf("ERROR: Failed to check if lyric %s is processed: %v", path, err)
		return false, fmt.Errorf("failed to check processed status for %s: %w", path, err)
	}
	return count > 0, nil
}
