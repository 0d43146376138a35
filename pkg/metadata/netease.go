package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// ErrPureMusic 表示响应标记为纯音乐，没有歌词
var ErrPureMusic = errors.New("netease response is pure music")

type neteaseLyric struct {
	Lyric string `json:"lyric"`
}

// NeteaseLyricResult 对应网易云音乐 /api/song/lyric 接口的响应
type NeteaseLyricResult struct {
	Code      int          `json:"code"`
	PureMusic bool         `json:"pureMusic"`
	Lrc       neteaseLyric `json:"lrc"`
	Tlyric    neteaseLyric `json:"tlyric"`
	Romalrc   neteaseLyric `json:"romalrc"`
	Yrc       neteaseLyric `json:"yrc"`
	Ytlrc     neteaseLyric `json:"ytlrc"`
	Yromalrc  neteaseLyric `json:"yromalrc"`
}

// DecodeNeteaseResponse 将保存下来的网易云歌词响应转换为 lyric.Source
// 有逐字歌词(yrc)时以其为主、lrc 为备用，翻译与罗马音优先取与主歌词时间轴一致的版本。
func DecodeNeteaseResponse(name string, data []byte) (lyric.Source, error) {
	var result NeteaseLyricResult
	if err := json.Unmarshal(data, &result); err != nil {
		return lyric.Source{}, fmt.Errorf("failed to decode netease response %s: %w", name, err)
	}
	if result.PureMusic {
		return lyric.Source{}, fmt.Errorf("%s: %w", name, ErrPureMusic)
	}

	src := lyric.Source{Name: name}
	if notBlank(result.Yrc.Lyric) {
		src.Lyrics = result.Yrc.Lyric
		src.Fallback = result.Lrc.Lyric
		src.Translation = firstNonBlank(result.Ytlrc.Lyric, result.Tlyric.Lyric)
		src.Romanization = firstNonBlank(result.Yromalrc.Lyric, result.Romalrc.Lyric)
	} else {
		src.Lyrics = result.Lrc.Lyric
		src.Translation = firstNonBlank(result.Tlyric.Lyric, result.Ytlrc.Lyric)
		src.Romanization = firstNonBlank(result.Romalrc.Lyric, result.Yromalrc.Lyric)
	}
	if !notBlank(src.Lyrics) {
		return lyric.Source{}, fmt.Errorf("netease response %s has no lyrics", name)
	}
	return src, nil
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if notBlank(v) {
			return v
		}
	}
	return ""
}
