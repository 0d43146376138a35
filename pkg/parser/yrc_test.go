package parser

import "testing"

func TestParseYRC(t *testing.T) {
	raw := `{"t":0,"c":[{"tx":"作词: "},{"tx":"someone"}]}
[3000,1500](3500,500,0)d(3000,500,0)c
[1000,2000](1000,400,0)Hello (1400,600,0)world

[garbage line]
[5000,100]no tuples here`
	doc := ParseYRC(raw)
	if len(doc.Lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(doc.Lines))
	}
	first := doc.Lines[0]
	if first.Begin != 1000 || first.End != 3000 || first.Duration != 2000 {
		t.Errorf("first = %d-%d (%d)", first.Begin, first.End, first.Duration)
	}
	if first.Text != "Hello world" {
		t.Errorf("first.Text = %q", first.Text)
	}
	// 逐字按开始时间排序，与文本中的顺序无关
	second := doc.Lines[1]
	if second.Text != "cd" {
		t.Errorf("second.Text = %q, want cd", second.Text)
	}
	if second.Words[0].Begin != 3000 || second.Words[1].End != 4000 {
		t.Errorf("second.Words = %+v", second.Words)
	}
}

func TestParseYRCTwoFieldTuples(t *testing.T) {
	doc := ParseYRC("[0,1000](0,500)a(500,500)(b)")
	if len(doc.Lines) != 1 || doc.Lines[0].Text != "a(b)" {
		t.Fatalf("lines = %+v, want text a(b)", doc.Lines)
	}
}
