package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

var (
	yrcHeaderRegex = regexp.MustCompile(`^\[(\d+)\s*,\s*(\d+)\]`)
	// yrcTupleRegex 匹配 (开始,持续) 或带第三个字段的 (开始,持续,0)
	yrcTupleRegex = regexp.MustCompile(`\((\d+)\s*,\s*(\d+)(?:\s*,\s*-?\d+)?\)`)
)

// ParseYRC 解析逐行 [开始,持续] + 逐字 (开始,持续)文本 的歌词
// 以 { 开头的结构化行（如 JSON 形式的制作人员信息）会被跳过，没有逐字信息的行会被丢弃。
func ParseYRC(raw string) lyric.Document {
	doc := lyric.Document{Metadata: map[string]string{}}
	for _, rawLine := range splitLines(raw) {
		trimmed := strings.TrimSpace(rawLine)
		if trimmed == "" || strings.HasPrefix(trimmed, "{") {
			continue
		}
		if key, value, ok := matchMeta(trimmed); ok {
			doc.Metadata[key] = value
			continue
		}
		h := yrcHeaderRegex.FindStringSubmatchIndex(trimmed)
		if h == nil {
			continue
		}
		begin := parseMillis(trimmed[h[2]:h[3]])
		dur := parseMillis(trimmed[h[4]:h[5]])

		words := parseTuples(trimmed[h[1]:])
		if len(words) == 0 {
			continue
		}
		end := lyric.AddMillis(begin, dur)
		doc.Lines = append(doc.Lines, lyric.RichLine{Line: lyric.Line{
			Begin:    begin,
			End:      end,
			Duration: end - begin,
			Text:     lyric.JoinWords(words),
			Words:    words,
		}})
	}
	sort.SliceStable(doc.Lines, func(i, j int) bool { return doc.Lines[i].Begin < doc.Lines[j].Begin })
	return doc
}

// parseTuples 每个时间对之后、下一个时间对之前的文本属于该时间对，结果按开始时间排序
func parseTuples(rest string) []lyric.Word {
	locs := yrcTupleRegex.FindAllStringSubmatchIndex(rest, -1)
	var words []lyric.Word
	for i, loc := range locs {
		segEnd := len(rest)
		if i+1 < len(locs) {
			segEnd = locs[i+1][0]
		}
		text := rest[loc[1]:segEnd]
		if text == "" {
			continue
		}
		start := parseMillis(rest[loc[2]:loc[3]])
		dur := parseMillis(rest[loc[4]:loc[5]])
		end := lyric.AddMillis(start, dur)
		words = append(words, lyric.Word{Begin: start, End: end, Duration: end - start, Text: text})
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Begin < words[j].Begin })
	return words
}
