package converter

import "github.com/yleoer/lyrics/pkg/lyric"

// TextConverter 定义文本转换器接口
type TextConverter interface {
	TradToSim(text string) string // 将繁体中文转换为简体
}

// ConvertLines 对歌词行中的原文、翻译、副轨道及逐字文本做繁转简，返回新的切片
// 罗马音不含汉字，不做转换。tc 为 nil 时原样返回。
func ConvertLines(tc TextConverter, lines []lyric.RichLine) []lyric.RichLine {
	if tc == nil {
		return lines
	}
	out := make([]lyric.RichLine, len(lines))
	for i, l := range lines {
		l.Text = tc.TradToSim(l.Text)
		l.Translation = convertOptional(tc, l.Translation)
		l.SecondaryText = convertOptional(tc, l.SecondaryText)
		l.Words = convertWords(tc, l.Words)
		l.SecondaryWords = convertWords(tc, l.SecondaryWords)
		out[i] = l
	}
	return out
}

func convertOptional(tc TextConverter, s string) string {
	if s == "" {
		return s
	}
	return tc.TradToSim(s)
}

func convertWords(tc TextConverter, words []lyric.Word) []lyric.Word {
	if len(words) == 0 {
		return words
	}
	out := lyric.CopyWords(words)
	for i := range out {
		out[i].Text = tc.TradToSim(out[i].Text)
	}
	return out
}
