package parser

import "testing"

func TestParseQRCContent(t *testing.T) {
	doc := ParseQRCContent("[1000,2000]a(1000,500)b(1600,400)")
	if len(doc.Lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(doc.Lines))
	}
	line := doc.Lines[0]
	if line.Begin != 1000 || line.End != 3000 || line.Duration != 2000 {
		t.Errorf("line = %d-%d (%d), want 1000-3000 (2000)", line.Begin, line.End, line.Duration)
	}
	if line.Text != "ab" {
		t.Errorf("text = %q, want ab", line.Text)
	}
	if len(line.Words) != 2 || line.Words[1].Begin != 1600 || line.Words[1].End != 2000 {
		t.Errorf("words = %+v", line.Words)
	}
}

func TestParseQRCContentUnorderedAndFallback(t *testing.T) {
	content := "[ti:Song]\n[5000,1000]later(5000,1000)\n[1000,500]plain text (1,2)\n[3000,100]\n[2000,300]x(2000,-5)"
	doc := ParseQRCContent(content)
	if doc.Metadata["ti"] != "Song" {
		t.Errorf("metadata = %v", doc.Metadata)
	}
	if len(doc.Lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(doc.Lines))
	}
	if doc.Lines[0].Begin != 1000 || doc.Lines[0].Text != "plain text " {
		t.Errorf("lines[0] = %+v", doc.Lines[0])
	}
	// 负时长的逐字被丢弃后退化为纯文本
	if doc.Lines[1].Begin != 2000 || doc.Lines[1].Text != "x" || len(doc.Lines[1].Words) != 0 {
		t.Errorf("lines[1] = %+v", doc.Lines[1])
	}
	if doc.Lines[2].Begin != 5000 || doc.Lines[2].Text != "later" {
		t.Errorf("lines[2] = %+v", doc.Lines[2])
	}
}

func TestParseQRCWrapper(t *testing.T) {
	xml := `<?xml version="1.0" encoding="utf-8"?>
<QrcInfos><LyricInfo LyricCount="2">
<Lyric_1 LyricType="1" LyricContent="[ti:&apos;Tis]&#10;[0,1000]&lt;a&gt;(0,500)&amp;(500,500)&#10;"/>
<Lyric_2 LyricType="1" LyricContent="  "/>
<Lyric_3 LyricType="1" LyricContent="[2000,1000]z(2000,1000)"/>
</LyricInfo></QrcInfos>`
	docs := ParseQRC(xml)
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Metadata["ti"] != "'Tis" {
		t.Errorf("metadata = %v", docs[0].Metadata)
	}
	if got := docs[0].Lines[0].Text; got != "<a>&" {
		t.Errorf("text = %q, want %q", got, "<a>&")
	}
	if docs[1].Lines[0].Begin != 2000 {
		t.Errorf("docs[1] = %+v", docs[1].Lines)
	}
	if ParseQRC("") != nil {
		t.Error("ParseQRC(\"\") should be nil")
	}
}
