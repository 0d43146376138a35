package parser

import (
	"sort"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// defaultTailMs 是无法推断结束时间时最后一行的默认时长
const defaultTailMs = 5000

// ParseLRC 解析标准 LRC 文本
// 支持一行多个时间标签（同一句歌词在多个时间点重复）、1~3 位小数、冒号小数分隔符以及超过 99 分钟的时间。
// totalDuration 为音频总时长（毫秒），用于计算最后一行的结束时间，未知时传 0。
func ParseLRC(raw string, totalDuration int64) lyric.Document {
	doc := lyric.Document{Metadata: map[string]string{}}
	if strings.TrimSpace(raw) == "" {
		return doc
	}

	var lines []lyric.RichLine
	for _, rawLine := range splitLines(raw) {
		trimmed := strings.TrimSpace(rawLine)
		if trimmed == "" || !strings.HasPrefix(trimmed, "[") {
			continue
		}

		times, rest := leadingTags(trimmed)
		if len(times) == 0 {
			if key, value, ok := matchMeta(trimmed); ok {
				doc.Metadata[key] = value
			}
			continue
		}

		text := strings.TrimSpace(rest)
		for _, begin := range times {
			lines = append(lines, lyric.RichLine{Line: lyric.Line{Begin: begin, Text: text}})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Begin < lines[j].Begin })
	for i := range lines {
		cur := &lines[i]
		if i+1 < len(lines) {
			cur.End = lines[i+1].Begin
		} else {
			cur.End = tailEnd(cur.Begin, totalDuration)
		}
		cur.Duration = cur.End - cur.Begin
	}
	doc.Lines = lines
	return doc
}

// tailEnd 推断最后一行的结束时间
func tailEnd(begin, totalDuration int64) int64 {
	if totalDuration > begin {
		return totalDuration
	}
	return lyric.AddMillis(begin, defaultTailMs)
}
