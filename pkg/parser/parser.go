package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// Dialect 表示歌词文本的格式
type Dialect int

const (
	Auto Dialect = iota
	Standard
	Enhanced
	SyllableBlock
	TagTuple
)

var (
	ErrParseFailed    = errors.New("lyric parse failed")
	ErrUnknownDialect = errors.New("unknown lyric dialect")
)

var dialectNames = map[Dialect]string{
	Auto:          "auto",
	Standard:      "lrc",
	Enhanced:      "elrc",
	SyllableBlock: "qrc",
	TagTuple:      "yrc",
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// ParseDialect 将名称转换为 Dialect，空字符串视为 Auto
func ParseDialect(name string) (Dialect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Auto, nil
	}
	for d, n := range dialectNames {
		if n == name {
			return d, nil
		}
	}
	switch name {
	case "standard":
		return Standard, nil
	case "enhanced":
		return Enhanced, nil
	case "syllable", "syllable-block":
		return SyllableBlock, nil
	case "tag-tuple", "tuple":
		return TagTuple, nil
	}
	return Auto, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

var (
	detectTupleRegex    = regexp.MustCompile(`(?m)^\s*\[\d+\s*,\s*\d+\]\s*\(\d+\s*,\s*\d+`)
	detectBlockRegex    = regexp.MustCompile(`(?m)^\s*\[\d+\s*,\s*\d+\]`)
	detectEnhancedRegex = regexp.MustCompile(`(?mi)<\d+:\d{1,2}(?:[.:]\d+)?>|^\s*\[\d+:\d{1,2}[^\]]*\]\s*(?:v\d+|bg)\s*:|^\s*\[bg\s*:`)
)

// Detect 根据文本特征猜测歌词格式，无法识别时按标准 LRC 处理
func Detect(raw string) Dialect {
	switch {
	case strings.Contains(raw, "LyricContent"):
		return SyllableBlock
	case detectTupleRegex.MatchString(raw):
		return TagTuple
	case detectBlockRegex.MatchString(raw):
		return SyllableBlock
	case detectEnhancedRegex.MatchString(raw):
		return Enhanced
	default:
		return Standard
	}
}

// Parse 是解析的外层边界：按指定格式解析，Auto 时自动识别
// 任何解析过程中的 panic 都会被恢复为 ErrParseFailed，并返回空文档，调用方负责记录日志。
func Parse(dialect Dialect, raw string, totalDuration int64) (doc lyric.Document, err error) {
	if dialect == Auto {
		dialect = Detect(raw)
	}
	defer func() {
		if r := recover(); r != nil {
			doc = lyric.Document{Metadata: map[string]string{}}
			err = fmt.Errorf("%w: %s: %v", ErrParseFailed, dialect, r)
		}
	}()

	switch dialect {
	case Standard:
		return ParseLRC(raw, totalDuration), nil
	case Enhanced:
		return ParseEnhanced(raw, totalDuration), nil
	case SyllableBlock:
		return parseSyllableBlock(raw), nil
	case TagTuple:
		return ParseYRC(raw), nil
	default:
		return lyric.Document{Metadata: map[string]string{}}, fmt.Errorf("%w: %s", ErrUnknownDialect, dialect)
	}
}

// parseSyllableBlock 优先取 XML 包装中第一个有歌词行的版本，没有包装时按纯 QRC 文本解析
func parseSyllableBlock(raw string) lyric.Document {
	if strings.Contains(raw, "LyricContent") {
		docs := ParseQRC(raw)
		for _, d := range docs {
			if len(d.Lines) > 0 {
				return d
			}
		}
		if len(docs) > 0 {
			return docs[0]
		}
		return lyric.Document{Metadata: map[string]string{}}
	}
	return ParseQRCContent(raw)
}
