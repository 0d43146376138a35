package converter

import (
	"fmt"
	"log"
	"sync"

	"github.com/liuzl/gocc"
)

// openCCConverter 基于 gocc 的繁转简实现
// 歌词中副歌大量重复，转换结果按原文缓存；并发安全。
type openCCConverter struct {
	cc     *gocc.OpenCC
	cache  sync.Map // string -> string
	logger *log.Logger
}

// NewOpenCCConverter 加载 t2s 词典并返回 TextConverter
func NewOpenCCConverter(logger *log.Logger) (TextConverter, error) {
	cc, err := gocc.New("t2s")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenCC converter: %w", err)
	}
	logger.Println("OpenCC converter (t2s) initialized.")
	return &openCCConverter{cc: cc, logger: logger}, nil
}

// TradToSim 将繁体中文转换为简体，失败时返回原文且不缓存
func (c *openCCConverter) TradToSim(text string) string {
	if c.cc == nil || text == "" {
		return text
	}
	if cached, ok := c.cache.Load(text); ok {
		return cached.(string)
	}
	out, err := c.cc.Convert(text)
	if err != nil {
		c.logger.Printf("WARN: Failed to convert lyric text %q from Traditional to Simplified: %v", text, err)
		return text
	}
	c.cache.Store(text, out)
	return out
}
