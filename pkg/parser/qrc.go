package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

var (
	// qrcContentRegex 提取 XML 包装中 LyricContent 属性的值
	qrcContentRegex = regexp.MustCompile(`LyricContent\s*=\s*"([^"]*)"`)
	// qrcLineRegex 匹配行头 [开始,持续]，单位毫秒
	qrcLineRegex = regexp.MustCompile(`\[(\d+)\s*,\s*(\d+)\]`)
	// qrcWordRegex 匹配 文本(开始,持续)，文本为非贪婪匹配
	qrcWordRegex = regexp.MustCompile(`(.*?)\((-?\d+)\s*,\s*(-?\d+)\)`)
	// qrcRemnantRegex 用于无逐字信息时剥离残留的时间对
	qrcRemnantRegex = regexp.MustCompile(`\(\s*-?\d+\s*,\s*-?\d+\s*\)`)
	qrcMetaRegex    = regexp.MustCompile(`\[(\w+)\s*:\s*([^\]]*)\]`)

	xmlUnescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&apos;", "'",
		"&quot;", `"`,
		"&#10;", "\n",
		"&#13;", "\r",
	)
)

// ParseQRC 解析包含 QRC 歌词的 XML 文本
// 一个 XML 中可能有多个 LyricContent（多个歌词版本），每个非空版本对应一个 Document。
func ParseQRC(xml string) []lyric.Document {
	if strings.TrimSpace(xml) == "" {
		return nil
	}
	var docs []lyric.Document
	for _, m := range qrcContentRegex.FindAllStringSubmatch(xml, -1) {
		content := xmlUnescaper.Replace(m[1])
		if strings.TrimSpace(content) == "" {
			continue
		}
		docs = append(docs, ParseQRCContent(content))
	}
	return docs
}

// ParseQRCContent 解析已反转义的 QRC 文本
func ParseQRCContent(content string) lyric.Document {
	doc := lyric.Document{Metadata: map[string]string{}}
	for _, m := range qrcMetaRegex.FindAllStringSubmatch(content, -1) {
		doc.Metadata[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}

	headers := qrcLineRegex.FindAllStringSubmatchIndex(content, -1)
	for i, h := range headers {
		bodyStart := h[1]
		bodyEnd := len(content)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := strings.Trim(content[bodyStart:bodyEnd], "\r\n")
		if strings.TrimSpace(body) == "" {
			continue
		}
		start := parseMillis(content[h[2]:h[3]])
		dur := parseMillis(content[h[4]:h[5]])
		doc.Lines = append(doc.Lines, parseQRCBody(start, dur, body))
	}

	// 源数据不保证有序
	sort.SliceStable(doc.Lines, func(i, j int) bool { return doc.Lines[i].Begin < doc.Lines[j].Begin })
	return doc
}

func parseQRCBody(start, dur int64, body string) lyric.RichLine {
	var words []lyric.Word
	for _, m := range qrcWordRegex.FindAllStringSubmatch(body, -1) {
		wStart := parseMillis(m[2])
		wDur, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil || wDur < 0 {
			continue
		}
		wEnd := lyric.AddMillis(wStart, wDur)
		words = append(words, lyric.Word{Begin: wStart, End: wEnd, Duration: wEnd - wStart, Text: m[1]})
	}

	text := lyric.JoinWords(words)
	if len(words) == 0 {
		text = qrcRemnantRegex.ReplaceAllString(body, "")
	}
	end := lyric.AddMillis(start, dur)
	return lyric.RichLine{Line: lyric.Line{
		Begin:    start,
		End:      end,
		Duration: end - start,
		Text:     text,
		Words:    words,
	}}
}

// parseMillis 解析毫秒数，失败或为负时返回 0
func parseMillis(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
