package lyric

import (
	"sort"
	"strings"
)

// FormatOptions 控制 FormatLRC 的输出内容
type FormatOptions struct {
	Words       bool // 输出 <mm:ss.cc> 逐字标签
	Translation bool // 在同一时间标签下追加翻译行
}

// FormatLRC 将歌词行序列化为增强型 LRC 文本
// 有右对齐行时，所有行都带 v1:/v2: 前缀，重新解析后对齐信息不变。
// 翻译行沿用原行的时间标签，这是播放器通用的写法；用增强解析器重新读入时它会并入副轨道而不是翻译。
func FormatLRC(metadata map[string]string, lines []RichLine, opts FormatOptions) string {
	var sb strings.Builder

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString("[" + k + ":" + metadata[k] + "]\n")
	}

	withRoles := false
	for _, line := range lines {
		if line.AlignRight {
			withRoles = true
			break
		}
	}

	for _, line := range lines {
		tag := "[" + EncodeTime(line.Begin) + "]"
		sb.WriteString(tag)
		switch {
		case line.AlignRight:
			sb.WriteString("v2: ")
		case withRoles:
			sb.WriteString("v1: ")
		}
		sb.WriteString(formatPayload(line.Text, line.Words, opts.Words))
		sb.WriteByte('\n')

		if line.SecondaryText != "" {
			sb.WriteString("[bg: " + formatPayload(line.SecondaryText, line.SecondaryWords, opts.Words) + "]\n")
		}
		if opts.Translation && line.Translation != "" {
			sb.WriteString(tag + line.Translation + "\n")
		}
	}
	return sb.String()
}

func formatPayload(text string, words []Word, withWords bool) string {
	if !withWords || len(words) == 0 {
		return text
	}
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString("<" + EncodeTime(w.Begin) + ">" + w.Text)
	}
	last := words[len(words)-1]
	if last.End > last.Begin {
		sb.WriteString("<" + EncodeTime(last.End) + ">")
	}
	return sb.String()
}
