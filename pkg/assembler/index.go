package assembler

import (
	"sort"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// TimeIndex 是按开始时间排序的 begin -> text 映射，用于容差范围内的最近匹配
// 同一开始时间出现多次时后出现的覆盖先出现的。
type TimeIndex struct {
	keys  []int64
	texts map[int64]string
}

// NewTimeIndex 由歌词行构建索引
func NewTimeIndex(lines []lyric.RichLine) *TimeIndex {
	idx := &TimeIndex{texts: make(map[int64]string, len(lines))}
	for _, l := range lines {
		if _, exists := idx.texts[l.Begin]; !exists {
			idx.keys = append(idx.keys, l.Begin)
		}
		idx.texts[l.Begin] = l.Text
	}
	sort.Slice(idx.keys, func(i, j int) bool { return idx.keys[i] < idx.keys[j] })
	return idx
}

// Len 返回索引中不同开始时间的数量
func (idx *TimeIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.keys)
}

// Nearest 查找距离 t 最近且不超过 tolerance 的条目，距离相等时优先取较早的一项
func (idx *TimeIndex) Nearest(t, tolerance int64) (string, bool) {
	if idx.Len() == 0 {
		return "", false
	}
	if text, ok := idx.texts[t]; ok {
		return text, true
	}

	// i 为第一个大于 t 的位置，i-1 即 floor，i 即 ceiling
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] > t })
	floorDiff, ceilDiff := int64(-1), int64(-1)
	if i > 0 {
		floorDiff = t - idx.keys[i-1]
	}
	if i < len(idx.keys) {
		ceilDiff = idx.keys[i] - t
	}

	switch {
	case floorDiff >= 0 && (ceilDiff < 0 || floorDiff <= ceilDiff) && floorDiff <= tolerance:
		return idx.texts[idx.keys[i-1]], true
	case ceilDiff >= 0 && ceilDiff <= tolerance:
		return idx.texts[idx.keys[i]], true
	default:
		return "", false
	}
}
