package assembler

import (
	"errors"
	"strings"
	"sync"

	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/metadata"
	"github.com/yleoer/lyrics/pkg/parser"
)

// Bundle 包装一份 lyric.Source，首次访问时解析并合并，结果之后不再变化
type Bundle struct {
	src       lyric.Source
	tolerance int64

	once     sync.Once
	lines    []lyric.RichLine
	meta     map[string]string
	dialect  parser.Dialect
	parseErr error
}

// NewBundle 创建 Bundle，tolerance 小于 0 时使用 DefaultTolerance
func NewBundle(src lyric.Source, tolerance int64) *Bundle {
	return &Bundle{src: src, tolerance: tolerance}
}

// Source 返回原始输入
func (b *Bundle) Source() lyric.Source {
	return b.src
}

// RichLines 返回合并后的歌词行
func (b *Bundle) RichLines() []lyric.RichLine {
	b.once.Do(b.build)
	return b.lines
}

// Metadata 返回主歌词的元数据标签
func (b *Bundle) Metadata() map[string]string {
	b.once.Do(b.build)
	return b.meta
}

// Dialect 返回实际采用的主歌词格式
func (b *Bundle) Dialect() parser.Dialect {
	b.once.Do(b.build)
	return b.dialect
}

// Err 返回解析过程中被恢复的错误，结果仍是尽力而为的
func (b *Bundle) Err() error {
	b.once.Do(b.build)
	return b.parseErr
}

func (b *Bundle) build() {
	b.meta = map[string]string{}
	primary, dialect, errs := b.parsePrimary(b.src.Lyrics)
	if len(primary.Lines) == 0 && strings.TrimSpace(b.src.Fallback) != "" {
		var fallbackErrs []error
		primary, dialect, fallbackErrs = b.parsePrimary(b.src.Fallback)
		errs = append(errs, fallbackErrs...)
	}
	if len(primary.Lines) == 0 {
		b.parseErr = errors.Join(errs...)
		return
	}

	translation, err := b.parseSecondary(b.src.Translation)
	errs = append(errs, err)
	romanization, err := b.parseSecondary(b.src.Romanization)
	errs = append(errs, err)

	b.lines = Assemble(primary, translation, romanization, b.tolerance)
	b.meta = primary.Metadata
	b.dialect = dialect
	b.parseErr = errors.Join(errs...)
}

// parsePrimary 依次尝试检测到的格式、逐字块、逐字元组、增强 LRC，取第一个有内容的结果
func (b *Bundle) parsePrimary(raw string) (lyric.Document, parser.Dialect, []error) {
	if strings.TrimSpace(raw) == "" {
		return lyric.Document{}, parser.Auto, nil
	}
	duration := b.durationHint(raw)

	var errs []error
	tried := map[parser.Dialect]bool{}
	for _, d := range []parser.Dialect{parser.Detect(raw), parser.SyllableBlock, parser.TagTuple, parser.Enhanced} {
		if d == parser.Standard {
			d = parser.Enhanced
		}
		if tried[d] {
			continue
		}
		tried[d] = true
		doc, err := parser.Parse(d, raw, duration)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(doc.Lines) > 0 {
			return doc, d, errs
		}
	}
	return lyric.Document{}, parser.Auto, errs
}

// durationHint 优先使用调用方给出的时长，否则读取 [length:] 标签
func (b *Bundle) durationHint(raw string) int64 {
	if b.src.DurationMs > 0 {
		return b.src.DurationMs
	}
	doc, err := parser.Parse(parser.Standard, headerOnly(raw), 0)
	if err != nil {
		return 0
	}
	return metadata.FromTags(doc.Metadata).LengthMs
}

func (b *Bundle) parseSecondary(raw string) (*lyric.Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	doc, err := parser.Parse(parser.Standard, raw, b.src.DurationMs)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// headerOnly 截取第一行歌词之前的部分，元数据标签通常都在这里
func headerOnly(raw string) string {
	var sb strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "[") || len(trimmed) > 1 && trimmed[1] >= '0' && trimmed[1] <= '9' {
			break
		}
		sb.WriteString(trimmed)
		sb.WriteByte('\n')
	}
	return sb.String()
}
