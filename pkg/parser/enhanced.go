package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// roleRegex 匹配行首的演唱者前缀，如 v1:、v2:、bg:
var roleRegex = regexp.MustCompile(`(?i)^(v\d+|bg)\s*:\s*`)

// enhancedState 是单次解析内的可变状态，不在调用之间共享
type enhancedState struct {
	lines       []lyric.RichLine
	metadata    map[string]string
	primaryRole string
}

// ParseEnhanced 解析增强型 LRC
// 在标准 LRC 的基础上支持 <mm:ss.ff> 逐字时间、v1/v2/bg 角色前缀、同时间行合并为副轨道以及独立的 [bg: ...] 标签。
func ParseEnhanced(raw string, totalDuration int64) lyric.Document {
	st := &enhancedState{metadata: map[string]string{}}
	if strings.TrimSpace(raw) == "" {
		return lyric.Document{Metadata: st.metadata}
	}

	for _, rawLine := range splitLines(raw) {
		trimmed := strings.TrimSpace(rawLine)
		if !strings.HasPrefix(trimmed, "[") {
			continue
		}

		times, rest := leadingTags(trimmed)
		if len(times) > 0 {
			for _, line := range st.buildLines(times, strings.TrimSpace(rest)) {
				st.merge(line)
			}
			continue
		}

		key, value, ok := matchMeta(trimmed)
		if !ok {
			continue
		}
		if key == "bg" {
			// 独立背景标签挂到上一行，没有上一行时丢弃
			if n := len(st.lines); n > 0 {
				attachBackground(&st.lines[n-1], value)
			}
			continue
		}
		st.metadata[key] = value
	}

	return lyric.Document{Metadata: st.metadata, Lines: finalizeEnhanced(st.lines, totalDuration)}
}

// buildLines 为每个行首时间标签生成一行，重复标签的逐字时间按标签差值平移
func (st *enhancedState) buildLines(times []int64, content string) []lyric.RichLine {
	role := ""
	if m := roleRegex.FindStringSubmatchIndex(content); m != nil {
		role = strings.ToLower(content[m[2]:m[3]])
		content = content[m[1]:]
	}
	if role != "" && role != "bg" && st.primaryRole == "" {
		st.primaryRole = role
	}
	alignRight := role == "bg" || (role != "" && st.primaryRole != "" && role != st.primaryRole)

	words := parseWords(content)
	text := content
	if len(words) > 0 {
		text = lyric.JoinWords(words)
	}

	out := make([]lyric.RichLine, 0, len(times))
	for _, begin := range times {
		line := lyric.RichLine{
			Line:       lyric.Line{Begin: begin, Text: text},
			AlignRight: alignRight,
		}
		if len(words) > 0 {
			line.Words = shiftWords(words, begin-times[0])
			if last := line.Words[len(line.Words)-1]; last.End > last.Begin && last.End > begin {
				line.End = last.End
			}
		}
		out = append(out, line)
	}
	return out
}

// merge 将与上一行开始时间相同的行折叠为上一行的副轨道
func (st *enhancedState) merge(cur lyric.RichLine) {
	if n := len(st.lines); n > 0 && st.lines[n-1].Begin == cur.Begin {
		fold(&st.lines[n-1], cur)
		return
	}
	st.lines = append(st.lines, cur)
}

// fold 把 src 并入 dst 的副轨道
func fold(dst *lyric.RichLine, src lyric.RichLine) {
	if dst.SecondaryText == "" && len(dst.SecondaryWords) == 0 {
		dst.SecondaryText = src.Text
		dst.SecondaryWords = src.Words
	} else {
		dst.SecondaryText = strings.TrimSpace(dst.SecondaryText + " " + src.Text)
		dst.SecondaryWords = append(dst.SecondaryWords, src.Words...)
	}
	if src.End > dst.End {
		dst.End = src.End
	}
	if src.AlignRight {
		dst.AlignRight = true
	}
}

// attachBackground 处理 [bg: ...] 标签
func attachBackground(dst *lyric.RichLine, value string) {
	words := parseWords(value)
	if len(words) > 0 {
		dst.SecondaryText = lyric.JoinWords(words)
		dst.SecondaryWords = words
		return
	}
	dst.SecondaryText = value
	dst.SecondaryWords = nil
}

// parseWords 解析 <mm:ss.ff> 逐字标签，相邻两个标签之间的文本属于前一个标签
// 最后一个标签后的文本结束时间暂等于开始时间，由 finalizeEnhanced 补齐；空文本不产生 Word。
func parseWords(content string) []lyric.Word {
	locs := wordTagRegex.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	starts := make([]int64, len(locs))
	for i, loc := range locs {
		starts[i] = decodeTag(submatches(content, loc))
	}

	var words []lyric.Word
	for i, loc := range locs {
		segEnd := len(content)
		end := starts[i]
		if i+1 < len(locs) {
			segEnd = locs[i+1][0]
			end = starts[i+1]
		}
		text := content[loc[1]:segEnd]
		if text == "" {
			continue
		}
		if end < starts[i] {
			end = starts[i]
		}
		words = append(words, lyric.Word{Begin: starts[i], End: end, Duration: end - starts[i], Text: text})
	}
	return words
}

func shiftWords(words []lyric.Word, offset int64) []lyric.Word {
	out := lyric.CopyWords(words)
	if offset == 0 {
		return out
	}
	for i := range out {
		out[i].Begin = lyric.AddMillis(out[i].Begin, offset)
		out[i].End = lyric.AddMillis(out[i].End, offset)
		out[i].Duration = out[i].End - out[i].Begin
	}
	return out
}

// finalizeEnhanced 排序、合并同时间行并补齐结束时间
func finalizeEnhanced(lines []lyric.RichLine, totalDuration int64) []lyric.RichLine {
	if len(lines) == 0 {
		return nil
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Begin < lines[j].Begin })

	merged := lines[:1]
	for _, cur := range lines[1:] {
		if last := &merged[len(merged)-1]; last.Begin == cur.Begin {
			fold(last, cur)
			continue
		}
		merged = append(merged, cur)
	}

	for i := range merged {
		cur := &merged[i]
		hasNext := i+1 < len(merged)
		switch {
		case cur.End <= cur.Begin && hasNext:
			cur.End = merged[i+1].Begin
		case cur.End <= cur.Begin:
			cur.End = tailEnd(cur.Begin, totalDuration)
		case hasNext && cur.End > merged[i+1].Begin:
			cur.End = merged[i+1].Begin
		}
		cur.Duration = cur.End - cur.Begin
		fitWords(cur.Words, cur.End)
		fitWords(cur.SecondaryWords, cur.End)
	}
	return merged
}

// fitWords 将未闭合的 Word 延伸到行结束时间，超出行结束时间的 Word 截断到行尾
func fitWords(words []lyric.Word, end int64) {
	for i := range words {
		w := &words[i]
		switch {
		case w.End == w.Begin && end > w.Begin:
			w.End = end
		case w.End > end:
			w.End = end
			if w.Begin > end {
				w.Begin = end
			}
		}
		w.Duration = w.End - w.Begin
	}
}
