package lyric

// Word 代表一个逐字时间单元，时间单位均为毫秒
type Word struct {
	Begin    int64  `json:"begin"`
	End      int64  `json:"end"`
	Duration int64  `json:"duration"`
	Text     string `json:"text"`
}

// Line 代表一行歌词。Words 为空表示没有逐字时间轴
type Line struct {
	Begin    int64  `json:"begin"`
	End      int64  `json:"end"`
	Duration int64  `json:"duration"`
	Text     string `json:"text"`
	Words    []Word `json:"words,omitempty"`
}

// RichLine 是最终交给渲染端的歌词行，空字符串表示对应字段缺失
type RichLine struct {
	Line
	Translation    string `json:"translation,omitempty"`
	Romanization   string `json:"romanization,omitempty"`
	SecondaryText  string `json:"secondaryText,omitempty"`  // 同一时间点的第二声部/背景人声
	SecondaryWords []Word `json:"secondaryWords,omitempty"` // 第二声部的逐字时间
	AlignRight     bool   `json:"alignRight,omitempty"`     // 作为对唱/背景声部渲染
}

// Document 是一次解析调用的结果，构造后不再修改
type Document struct {
	Metadata map[string]string `json:"metadata"`
	Lines    []RichLine        `json:"lines"`
}

// Source 是一首歌的原始歌词文本集合，来自磁盘、网络或宿主进程
type Source struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Lyrics       string `json:"lyrics"`
	Fallback     string `json:"fallback,omitempty"` // Lyrics 解析不出内容时使用的备用原文
	Translation  string `json:"translation,omitempty"`
	Romanization string `json:"romanization,omitempty"`
	DurationMs   int64  `json:"durationMs,omitempty"`
}

// Empty 判断文档是否没有任何内容
func (d Document) Empty() bool {
	return len(d.Lines) == 0 && len(d.Metadata) == 0
}

// CopyWords 返回 words 的独立副本，保证每行独占自己的 Word
func CopyWords(words []Word) []Word {
	if len(words) == 0 {
		return nil
	}
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

// JoinWords 将逐字文本按顺序拼接
func JoinWords(words []Word) string {
	n := 0
	for _, w := range words {
		n += len(w.Text)
	}
	buf := make([]byte, 0, n)
	for _, w := range words {
		buf = append(buf, w.Text...)
	}
	return string(buf)
}
