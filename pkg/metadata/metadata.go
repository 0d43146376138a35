package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// Info 是从歌词元数据标签中解读出的歌曲信息
type Info struct {
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	Author   string `json:"author,omitempty"`   // [by:] 歌词制作者
	OffsetMs int64  `json:"offsetMs,omitempty"` // [offset:] 整体偏移，正数表示提前
	LengthMs int64  `json:"lengthMs,omitempty"` // [length:] 或 [total:] 歌曲总时长
}

var lengthRegex = regexp.MustCompile(`^(\d+):(\d{1,2})(?:[.:](\d+))?$`)

// FromTags 解读常见的 LRC 元数据标签
func FromTags(tags map[string]string) Info {
	info := Info{
		Title:  tags["ti"],
		Artist: tags["ar"],
		Album:  tags["al"],
		Author: tags["by"],
	}
	if v, ok := tags["offset"]; ok {
		if n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(v), "+"), 10, 64); err == nil {
			info.OffsetMs = n
		}
	}
	if v, ok := tags["length"]; ok {
		info.LengthMs = ParseLength(v)
	} else if v, ok := tags["total"]; ok {
		info.LengthMs = ParseLength(v)
	}
	return info
}

// ParseLength 解析 mm:ss、mm:ss.ff 或纯毫秒数形式的时长，无法解析时返回 0
func ParseLength(s string) int64 {
	s = strings.TrimSpace(s)
	if m := lengthRegex.FindStringSubmatch(s); m != nil {
		return lyric.DecodeTime(m[1], m[2], m[3])
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
