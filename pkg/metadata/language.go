package metadata

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// minLanguageConfidence 低于该置信度的检测结果不采用
const minLanguageConfidence = 0.5

// DetectLanguage 检测主歌词文本的语言，无法可靠判断时返回空字符串
func DetectLanguage(lines []lyric.RichLine) string {
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return ""
	}
	info := whatlanggo.Detect(strings.Join(texts, " "))
	if info.Confidence < minLanguageConfidence {
		return ""
	}
	return info.Lang.String()
}
