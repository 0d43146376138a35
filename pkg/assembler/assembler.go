package assembler

import "github.com/yleoer/lyrics/pkg/lyric"

// DefaultTolerance 是翻译/罗马音与主歌词匹配时允许的时间误差（毫秒）
const DefaultTolerance int64 = 100

// Assemble 将主歌词与翻译、罗马音按时间容差合并为 RichLine 序列
// translation、romanization 可为 nil；tolerance 小于 0 时使用 DefaultTolerance。
// 输出顺序与主歌词一致，主歌词中的副轨道与对唱标记原样保留。
func Assemble(primary lyric.Document, translation, romanization *lyric.Document, tolerance int64) []lyric.RichLine {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	transIndex := indexOf(translation)
	romaIndex := indexOf(romanization)

	out := make([]lyric.RichLine, 0, len(primary.Lines))
	for _, line := range primary.Lines {
		rich := lyric.RichLine{
			Line: lyric.Line{
				Begin:    line.Begin,
				End:      line.End,
				Duration: line.Duration,
				Text:     line.Text,
				Words:    lyric.CopyWords(line.Words),
			},
			SecondaryText:  line.SecondaryText,
			SecondaryWords: lyric.CopyWords(line.SecondaryWords),
			AlignRight:     line.AlignRight,
		}
		if text, ok := transIndex.Nearest(line.Begin, tolerance); ok {
			rich.Translation = text
		}
		if text, ok := romaIndex.Nearest(line.Begin, tolerance); ok {
			rich.Romanization = text
		}
		out = append(out, rich)
	}
	return out
}

func indexOf(doc *lyric.Document) *TimeIndex {
	if doc == nil {
		return nil
	}
	return NewTimeIndex(doc.Lines)
}
