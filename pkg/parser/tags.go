package parser

import (
	"regexp"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// timeBody 匹配 mm:ss、mm:ss.ff、mm:ss:ff（冒号作小数分隔符）以及 hh:mm:ss.ff
const timeBody = `(\d+):(\d{1,2})(?:([.:])(\d+))?(?:\.(\d+))?`

var (
	headTagRegex = regexp.MustCompile(`^\s*\[` + timeBody + `\]`)
	wordTagRegex = regexp.MustCompile(`<` + timeBody + `>`)
	metaRegex    = regexp.MustCompile(`^\[(\w+)\s*:\s*([^\]]*)\]$`)
)

// decodeTag 根据子匹配计算毫秒值，groups 依次为 分、秒、分隔符、小数、附加小数
func decodeTag(groups []string) int64 {
	minutes, seconds, sep, frac, extra := groups[0], groups[1], groups[2], groups[3], groups[4]
	if sep == ":" && extra != "" {
		return lyric.DecodeClockTime(minutes, seconds, frac, extra)
	}
	return lyric.DecodeTime(minutes, seconds, frac)
}

// submatches 从 FindStringSubmatchIndex 的结果中取出第 1 组之后的子匹配
func submatches(s string, loc []int) []string {
	out := make([]string, 0, len(loc)/2-1)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			out = append(out, "")
			continue
		}
		out = append(out, s[loc[i]:loc[i+1]])
	}
	return out
}

// leadingTags 取出行首连续的所有时间标签，返回各自的毫秒值与最后一个标签之后的文本
// 每次匹配都会推进游标，保证在输入长度内结束。
func leadingTags(line string) ([]int64, string) {
	var times []int64
	rest := line
	for {
		loc := headTagRegex.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		times = append(times, decodeTag(submatches(rest, loc)))
		rest = rest[loc[1]:]
	}
	return times, rest
}

// matchMeta 解析 [key: value] 形式的元数据标签，key 统一转为小写
func matchMeta(line string) (key, value string, ok bool) {
	m := metaRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), strings.TrimSpace(m[2]), true
}

// splitLines 按换行拆分，兼容 \r\n
func splitLines(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}
