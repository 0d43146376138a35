package lyric

import (
	"fmt"
	"math"
	"strconv"
)

// DecodeTime 将时间标签的分、秒、小数部分转换为毫秒
// 小数位宽决定单位：1 位为十分之一秒，2 位为百分之一秒，3 位为毫秒，超过 3 位截取前 3 位。
// 任何无法解析的部分按 0 处理，分钟没有上限，结果溢出时饱和到 math.MaxInt64。
func DecodeTime(minutes, seconds, fraction string) int64 {
	ms := scaleMillis(parseNumber(minutes), 60000)
	ms = AddMillis(ms, scaleMillis(parseNumber(seconds), 1000))
	return AddMillis(ms, decodeFraction(fraction))
}

// DecodeClockTime 处理带小时的 hh:mm:ss.ff 形式
func DecodeClockTime(hours, minutes, seconds, fraction string) int64 {
	return AddMillis(scaleMillis(parseNumber(hours), 3600000), DecodeTime(minutes, seconds, fraction))
}

// AddMillis 计算 t+d，结果限制在 [0, math.MaxInt64]，t 不应为负
func AddMillis(t, d int64) int64 {
	if d > 0 && t > math.MaxInt64-d {
		return math.MaxInt64
	}
	if t+d < 0 {
		return 0
	}
	return t + d
}

func scaleMillis(n, unit int64) int64 {
	if n > math.MaxInt64/unit {
		return math.MaxInt64
	}
	return n * unit
}

// EncodeTime 将毫秒格式化为 mm:ss.cc，分钟可以超过两位
func EncodeTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := ms % 60000 / 1000
	centis := ms % 1000 / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}

func decodeFraction(fraction string) int64 {
	if len(fraction) > 3 {
		fraction = fraction[:3]
	}
	f := parseNumber(fraction)
	switch len(fraction) {
	case 1:
		return f * 100
	case 2:
		return f * 10
	case 3:
		return f
	default:
		return 0
	}
}

func parseNumber(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
