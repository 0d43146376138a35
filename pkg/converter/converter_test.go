package converter

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/yleoer/lyrics/pkg/lyric"
)

// upperConverter 用大写转换代替繁转简，便于验证调用范围
type upperConverter struct{}

func (upperConverter) TradToSim(text string) string { return strings.ToUpper(text) }

func TestConvertLines(t *testing.T) {
	lines := []lyric.RichLine{{
		Line: lyric.Line{Text: "ab", Words: []lyric.Word{{Text: "a"}, {Text: "b"}}},
		Translation:    "tr",
		Romanization:   "roma",
		SecondaryText:  "bg",
		SecondaryWords: []lyric.Word{{Text: "bg"}},
	}}
	got := ConvertLines(upperConverter{}, lines)
	l := got[0]
	if l.Text != "AB" || l.Translation != "TR" || l.SecondaryText != "BG" {
		t.Errorf("converted = %+v", l)
	}
	if l.Romanization != "roma" {
		t.Errorf("Romanization = %q, want unchanged", l.Romanization)
	}
	if l.Words[0].Text != "A" || l.SecondaryWords[0].Text != "BG" {
		t.Errorf("words = %+v / %+v", l.Words, l.SecondaryWords)
	}
	if lines[0].Text != "ab" || lines[0].Words[0].Text != "a" {
		t.Error("ConvertLines modified its input")
	}
}

func TestConvertLinesNil(t *testing.T) {
	lines := []lyric.RichLine{{Line: lyric.Line{Text: "x"}}}
	if got := ConvertLines(nil, lines); got[0].Text != "x" {
		t.Errorf("ConvertLines(nil) = %+v", got)
	}
}

func TestOpenCCConverter(t *testing.T) {
	tc, err := NewOpenCCConverter(log.New(io.Discard, "", 0))
	if err != nil {
		t.Skipf("OpenCC dictionaries unavailable: %v", err)
	}
	for i := 0; i < 2; i++ {
		if got := tc.TradToSim("愛情"); got != "爱情" {
			t.Errorf("TradToSim(愛情) = %q, want 爱情", got)
		}
	}
	if got := tc.TradToSim(""); got != "" {
		t.Errorf("TradToSim(\"\") = %q", got)
	}
}
