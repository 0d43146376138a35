package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yleoer/lyrics/pkg/assembler"
	"github.com/yleoer/lyrics/pkg/converter"
	"github.com/yleoer/lyrics/pkg/database"
	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/metadata"
	"github.com/yleoer/lyrics/pkg/parser"
	"github.com/yleoer/lyrics/pkg/util"
)

var (
	// ErrAlreadyProcessed 表示歌词内容未变化，已跳过
	ErrAlreadyProcessed = errors.New("lyric already processed")
	// ErrNoLyrics 表示没有解析出任何歌词行
	ErrNoLyrics = errors.New("no lyric lines parsed")
)

// Options 是 LyricProcessor 的运行参数
type Options struct {
	ExportDir         string // 规范化 LRC 输出目录，为空时不导出
	Tolerance         int64  // 翻译/罗马音匹配容差（毫秒），小于 0 时使用默认值
	DefaultDurationMs int64  // 歌曲时长未知时使用的时长
	Workers           int    // ProcessAll 的并发数
}

// LyricProcessor 负责把歌词源解析、合并、转换后写入数据库并导出
type LyricProcessor struct {
	store     database.LyricStore
	converter converter.TextConverter
	opts      Options
	logger    *log.Logger
}

// NewLyricProcessor 创建一个新的 LyricProcessor 实例，store 与 tc 均可为 nil
func NewLyricProcessor(store database.LyricStore, tc converter.TextConverter, opts Options, logger *log.Logger) *LyricProcessor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &LyricProcessor{store: store, converter: tc, opts: opts, logger: logger}
}

// Fingerprint 计算歌词源全部原文的指纹
func Fingerprint(src lyric.Source) string {
	h := sha256.New()
	for _, part := range []string{src.Lyrics, src.Fallback, src.Translation, src.Romanization} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "%d", src.DurationMs)
	return hex.EncodeToString(h.Sum(nil))
}

// Build 只做解析与合并，不访问数据库也不导出
func (p *LyricProcessor) Build(src lyric.Source) (*database.LyricRecord, error) {
	src = p.withDefaults(src)
	bundle := assembler.NewBundle(src, p.opts.Tolerance)
	lines := bundle.RichLines()
	if err := bundle.Err(); err != nil {
		p.logger.Printf("WARN: Recovered errors while parsing %s: %v", src.Name, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name, ErrNoLyrics)
	}
	return p.record(src, bundle.Dialect(), bundle.Metadata(), lines), nil
}

// BuildAs 以指定格式解析主歌词，翻译与罗马音按标准 LRC 解析，dialect 为 Auto 时等同于 Build
func (p *LyricProcessor) BuildAs(dialect parser.Dialect, src lyric.Source) (*database.LyricRecord, error) {
	if dialect == parser.Auto {
		return p.Build(src)
	}
	src = p.withDefaults(src)
	primary, err := parser.Parse(dialect, src.Lyrics, src.DurationMs)
	if err != nil {
		return nil, err
	}
	if len(primary.Lines) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name, ErrNoLyrics)
	}
	translation, err := parseSidecar(src.Translation, src.DurationMs)
	if err != nil {
		return nil, err
	}
	romanization, err := parseSidecar(src.Romanization, src.DurationMs)
	if err != nil {
		return nil, err
	}
	lines := assembler.Assemble(primary, translation, romanization, p.opts.Tolerance)
	return p.record(src, dialect, primary.Metadata, lines), nil
}

func (p *LyricProcessor) withDefaults(src lyric.Source) lyric.Source {
	if src.DurationMs <= 0 && p.opts.DefaultDurationMs > 0 {
		src.DurationMs = p.opts.DefaultDurationMs
	}
	return src
}

// record 做繁简转换并补齐元数据与语言
func (p *LyricProcessor) record(src lyric.Source, dialect parser.Dialect, meta map[string]string, lines []lyric.RichLine) *database.LyricRecord {
	lines = converter.ConvertLines(p.converter, lines)
	return &database.LyricRecord{
		Path:        src.Path,
		Name:        src.Name,
		Dialect:     dialect.String(),
		Language:    metadata.DetectLanguage(lines),
		Fingerprint: Fingerprint(src),
		Info:        metadata.FromTags(meta),
		Metadata:    meta,
		Lines:       lines,
	}
}

func parseSidecar(raw string, totalDuration int64) (*lyric.Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	doc, err := parser.Parse(parser.Standard, raw, totalDuration)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Process 处理单个歌词源，内容未变化时返回 ErrAlreadyProcessed
func (p *LyricProcessor) Process(ctx context.Context, src lyric.Source) (*database.LyricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// 指纹与保存的记录使用同一份补齐默认值后的输入
	src = p.withDefaults(src)
	if p.store != nil && src.Path != "" {
		processed, err := p.store.IsProcessed(src.Path, Fingerprint(src))
		if err != nil {
			p.logger.Printf("ERROR: Error checking processed status for %s: %v", src.Path, err)
			// 即使出错也尝试处理，避免遗漏
		}
		if processed {
			return nil, fmt.Errorf("%s: %w", src.Path, ErrAlreadyProcessed)
		}
	}

	rec, err := p.Build(src)
	if err != nil {
		return nil, err
	}
	rec.ProcessedAt = time.Now()
	if p.store != nil {
		if err := p.store.SaveLyric(rec); err != nil {
			return nil, err
		}
	}
	if p.opts.ExportDir != "" {
		if err := p.export(rec); err != nil {
			p.logger.Printf("ERROR: Failed to export %s: %v", rec.Name, err)
		}
	}
	return rec, nil
}

// ProcessAll 以有限并发处理所有歌词源，返回成功处理的数量
// 单个歌词源失败只记录日志，上下文被取消时返回 ctx.Err()。
func (p *LyricProcessor) ProcessAll(ctx context.Context, sources []lyric.Source) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	var done atomic.Int64
	for _, src := range sources {
		src := src
		g.Go(func() error {
			rec, err := p.Process(ctx, src)
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, ErrAlreadyProcessed):
				p.logger.Printf("  -> %s already processed. Skipping.", src.Path)
			case err != nil:
				p.logger.Printf("ERROR: Error processing %s: %v", src.Path, err)
			default:
				done.Add(1)
				p.logger.Printf("Successfully processed %s (%s, %d lines).", rec.Name, rec.Dialect, len(rec.Lines))
			}
			return nil
		})
	}
	err := g.Wait()
	return int(done.Load()), err
}

// export 以增强型 LRC 格式写出合并后的歌词
func (p *LyricProcessor) export(rec *database.LyricRecord) error {
	if err := os.MkdirAll(p.opts.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", p.opts.ExportDir, err)
	}
	name := util.SanitizeFileName(rec.Name)
	if name == "" {
		name = "untitled"
	}
	target := filepath.Join(p.opts.ExportDir, name+".lrc")
	content := lyric.FormatLRC(rec.Metadata, rec.Lines, lyric.FormatOptions{Words: true, Translation: true})
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	p.logger.Printf("  -> Exported %s", target)
	return nil
}
