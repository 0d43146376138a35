package scanner

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/metadata"
	"github.com/yleoer/lyrics/pkg/util"
)

// fileRole 表示目录中一个文件在歌词组中的角色
type fileRole int

const (
	rolePrimary fileRole = iota
	roleTranslation
	roleRomanization
	roleNetease
)

// 主歌词扩展名的优先级，数字越小越优先
var primaryPriority = map[string]int{
	".qrc":  0,
	".yrc":  1,
	".elrc": 2,
	".lrc":  3,
}

// lyricGroup 是同一首歌的所有相关文件
type lyricGroup struct {
	stem         string
	primary      string
	netease      string
	translation  string
	romanization string
}

// LyricScanner 负责扫描歌词目录并按文件名把主歌词与翻译、罗马音文件组合成 lyric.Source
type LyricScanner struct {
	logger *log.Logger
}

// NewLyricScanner 创建一个新的 LyricScanner 实例
func NewLyricScanner(logger *log.Logger) *LyricScanner {
	return &LyricScanner{logger: logger}
}

// ScanTree 递归扫描 root 及其子目录
func (s *LyricScanner) ScanTree(root string) ([]lyric.Source, error) {
	var sources []lyric.Source
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		found, err := s.ScanDirectory(path)
		if err != nil {
			s.logger.Printf("ERROR: Error scanning lyric directory %s: %v", path, err)
			return nil // continue walking
		}
		sources = append(sources, found...)
		return nil
	})
	return sources, err
}

// ScanDirectory 扫描单个目录（不含子目录），返回按路径排序的歌词源
func (s *LyricScanner) ScanDirectory(dir string) ([]lyric.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	groups := make(map[string]*lyricGroup)
	for _, entry := range entries {
		if entry.IsDir() || !util.IsLyricFile(entry.Name()) {
			continue
		}
		stem, role := classify(entry.Name())
		g, ok := groups[stem]
		if !ok {
			g = &lyricGroup{stem: stem}
			groups[stem] = g
		}
		path := filepath.Join(dir, entry.Name())
		switch role {
		case rolePrimary:
			if g.primary == "" || priorityOf(path) < priorityOf(g.primary) {
				g.primary = path
			}
		case roleNetease:
			g.netease = path
		case roleTranslation:
			g.translation = path
		case roleRomanization:
			g.romanization = path
		}
	}

	var sources []lyric.Source
	for _, g := range groups {
		src, ok := s.buildSource(g)
		if ok {
			sources = append(sources, src)
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})
	return sources, nil
}

// buildSource 读取组内文件，组装成 lyric.Source
func (s *LyricScanner) buildSource(g *lyricGroup) (lyric.Source, bool) {
	var src lyric.Source
	switch {
	case g.primary != "":
		content, err := util.ReadTextFileContent(g.primary)
		if err != nil {
			s.logger.Printf("ERROR: Failed to read lyric file %s: %v", g.primary, err)
			return lyric.Source{}, false
		}
		src = lyric.Source{Name: g.stem, Path: g.primary, Lyrics: content}
	case g.netease != "":
		data, err := os.ReadFile(g.netease)
		if err != nil {
			s.logger.Printf("ERROR: Failed to read netease response %s: %v", g.netease, err)
			return lyric.Source{}, false
		}
		src, err = metadata.DecodeNeteaseResponse(g.stem, data)
		if errors.Is(err, metadata.ErrPureMusic) {
			s.logger.Printf("  -> %s is marked as pure music. Skipping.", g.netease)
			return lyric.Source{}, false
		}
		if err != nil {
			s.logger.Printf("WARN: Skipping %s: %v", g.netease, err)
			return lyric.Source{}, false
		}
		src.Path = g.netease
	default:
		s.logger.Printf("WARN: Found sidecar files for %s without primary lyrics. Skipping.", g.stem)
		return lyric.Source{}, false
	}

	// 独立的翻译/罗马音文件优先于响应中自带的内容
	if g.translation != "" {
		if content, err := util.ReadTextFileContent(g.translation); err == nil {
			src.Translation = content
		} else {
			s.logger.Printf("WARN: Failed to read translation %s: %v", g.translation, err)
		}
	}
	if g.romanization != "" {
		if content, err := util.ReadTextFileContent(g.romanization); err == nil {
			src.Romanization = content
		} else {
			s.logger.Printf("WARN: Failed to read romanization %s: %v", g.romanization, err)
		}
	}
	return src, true
}

// classify 根据文件名判断角色并返回去掉角色后缀的歌曲名
// song.trans.lrc / song.tlrc 为翻译，song.roma.lrc / song.rlrc 为罗马音，song.json 为网易云响应。
func classify(name string) (string, fileRole) {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch ext {
	case ".tlrc":
		return base, roleTranslation
	case ".rlrc":
		return base, roleRomanization
	case ".json":
		return base, roleNetease
	}
	inner := strings.ToLower(filepath.Ext(base))
	switch inner {
	case ".trans", ".tr":
		return strings.TrimSuffix(base, filepath.Ext(base)), roleTranslation
	case ".roma", ".romaji":
		return strings.TrimSuffix(base, filepath.Ext(base)), roleRomanization
	}
	return base, rolePrimary
}

func priorityOf(path string) int {
	if p, ok := primaryPriority[strings.ToLower(filepath.Ext(path))]; ok {
		return p
	}
	return len(primaryPriority)
}
