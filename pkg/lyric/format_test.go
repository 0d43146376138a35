package lyric

import (
	"strings"
	"testing"
)

func TestFormatLRC(t *testing.T) {
	lines := []RichLine{
		{
			Line: Line{Begin: 1000, End: 2000, Duration: 1000, Text: "ab", Words: []Word{
				{Begin: 1000, End: 1500, Duration: 500, Text: "a"},
				{Begin: 1500, End: 2000, Duration: 500, Text: "b"},
			}},
			SecondaryText: "echo",
			Translation:   "AB",
		},
		{Line: Line{Begin: 2000, End: 3000, Duration: 1000, Text: "right"}, AlignRight: true},
	}
	got := FormatLRC(map[string]string{"ti": "Song", "ar": "Artist"}, lines, FormatOptions{Words: true, Translation: true})
	want := strings.Join([]string{
		"[ar:Artist]",
		"[ti:Song]",
		"[00:01.00]v1: <00:01.00>a<00:01.50>b<00:02.00>",
		"[bg: echo]",
		"[00:01.00]AB",
		"[00:02.00]v2: right",
		"",
	}, "\n")
	if got != want {
		t.Errorf("FormatLRC() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatLRCPlain(t *testing.T) {
	lines := []RichLine{{Line: Line{Begin: 500, Text: "x", Words: []Word{{Begin: 500, End: 900, Text: "x"}}}}}
	got := FormatLRC(nil, lines, FormatOptions{})
	if got != "[00:00.50]x\n" {
		t.Errorf("FormatLRC() = %q", got)
	}
}
