package parser

import (
	"testing"

	"github.com/yleoer/lyrics/pkg/lyric"
)

func TestParseLRCRepeatedTags(t *testing.T) {
	doc := ParseLRC("[00:10.00][00:20.00]hello", 0)
	if len(doc.Lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(doc.Lines))
	}
	if doc.Lines[0].Begin != 10000 || doc.Lines[0].Text != "hello" {
		t.Errorf("lines[0] = %+v", doc.Lines[0])
	}
	if doc.Lines[1].Begin != 20000 || doc.Lines[1].Text != "hello" {
		t.Errorf("lines[1] = %+v", doc.Lines[1])
	}
	if doc.Lines[0].End != 20000 || doc.Lines[0].Duration != 10000 {
		t.Errorf("lines[0] end/duration = %d/%d, want 20000/10000", doc.Lines[0].End, doc.Lines[0].Duration)
	}
	if doc.Lines[1].End != 25000 {
		t.Errorf("lines[1].End = %d, want 25000", doc.Lines[1].End)
	}
}

func TestParseLRCTotalDuration(t *testing.T) {
	doc := ParseLRC("[00:01.00]a\n[00:02.00]b", 60000)
	if got := doc.Lines[1].End; got != 60000 {
		t.Errorf("last End = %d, want 60000", got)
	}
	// 总时长不大于开始时间时退回默认 5 秒
	doc = ParseLRC("[00:10.00]a", 5000)
	if got := doc.Lines[0].End; got != 15000 {
		t.Errorf("End = %d, want 15000", got)
	}
}

func TestParseLRCMetadataAndNoise(t *testing.T) {
	raw := "[ti: Song ]\n[AR:Artist]\n[ar:Other]\nplain text\n{\"json\":1}\n[garbage\n\n[00:05.5]five\n[00:01:20]colon"
	doc := ParseLRC(raw, 0)
	if doc.Metadata["ti"] != "Song" {
		t.Errorf("ti = %q, want Song", doc.Metadata["ti"])
	}
	if doc.Metadata["ar"] != "Other" {
		t.Errorf("ar = %q, want Other (last seen wins)", doc.Metadata["ar"])
	}
	want := []struct {
		begin int64
		text  string
	}{
		{1200, "colon"},
		{5500, "five"},
	}
	if len(doc.Lines) != len(want) {
		t.Fatalf("len(lines) = %d, want %d", len(doc.Lines), len(want))
	}
	for i, w := range want {
		if doc.Lines[i].Begin != w.begin || doc.Lines[i].Text != w.text {
			t.Errorf("lines[%d] = %d %q, want %d %q", i, doc.Lines[i].Begin, doc.Lines[i].Text, w.begin, w.text)
		}
	}
}

func TestParseLRCHourTag(t *testing.T) {
	doc := ParseLRC("[01:02:03.45]test", 0)
	if len(doc.Lines) != 1 || doc.Lines[0].Begin != 3723450 {
		t.Fatalf("lines = %+v, want begin 3723450", doc.Lines)
	}
}

func TestParseLRCEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n"} {
		doc := ParseLRC(raw, 0)
		if len(doc.Lines) != 0 || len(doc.Metadata) != 0 {
			t.Errorf("ParseLRC(%q) = %+v, want empty", raw, doc)
		}
	}
}

func TestParseLRCSortedAndContiguous(t *testing.T) {
	raw := "[00:30.00]c\n[00:10.00]a\n[00:20.00][00:05.00]b\n[00:10.00]a2"
	doc := ParseLRC(raw, 0)
	assertFinalized(t, doc.Lines)
	// 相同时间的行保持原有顺序
	if doc.Lines[1].Text != "a" || doc.Lines[2].Text != "a2" {
		t.Errorf("tie order = %q, %q", doc.Lines[1].Text, doc.Lines[2].Text)
	}
}

func assertFinalized(t *testing.T, lines []lyric.RichLine) {
	t.Helper()
	for i, l := range lines {
		if l.End < l.Begin {
			t.Errorf("lines[%d] end %d < begin %d", i, l.End, l.Begin)
		}
		if l.Duration != l.End-l.Begin {
			t.Errorf("lines[%d] duration %d != end-begin", i, l.Duration)
		}
		if i > 0 && lines[i-1].Begin > l.Begin {
			t.Errorf("lines not sorted at %d", i)
		}
		if i > 0 && lines[i-1].End > l.Begin {
			t.Errorf("lines[%d] end %d overlaps next begin %d", i-1, lines[i-1].End, l.Begin)
		}
	}
}

func assertSorted(t *testing.T, lines []lyric.RichLine) {
	t.Helper()
	for i := 1; i < len(lines); i++ {
		if lines[i-1].Begin > lines[i].Begin {
			t.Errorf("lines not sorted at %d", i)
		}
	}
}
