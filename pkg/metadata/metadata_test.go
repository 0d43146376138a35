package metadata

import (
	"errors"
	"testing"

	"github.com/yleoer/lyrics/pkg/lyric"
)

func TestFromTags(t *testing.T) {
	info := FromTags(map[string]string{
		"ti":     "Song",
		"ar":     "Artist",
		"al":     "Album",
		"by":     "me",
		"offset": "+250",
		"length": "03:45.50",
	})
	want := Info{Title: "Song", Artist: "Artist", Album: "Album", Author: "me", OffsetMs: 250, LengthMs: 225500}
	if info != want {
		t.Errorf("FromTags() = %+v, want %+v", info, want)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"03:45", 225000},
		{" 3:05.5 ", 185500},
		{"225000", 225000},
		{"", 0},
		{"abc", 0},
		{"-10", 0},
	}
	for _, tt := range tests {
		if got := ParseLength(tt.in); got != tt.want {
			t.Errorf("ParseLength(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := FromTags(map[string]string{"total": "1000"}).LengthMs; got != 1000 {
		t.Errorf("total LengthMs = %d, want 1000", got)
	}
}

func TestDecodeNeteaseResponse(t *testing.T) {
	data := []byte(`{
		"code": 200,
		"lrc": {"lyric": "[00:01.00]hello"},
		"tlyric": {"lyric": "[00:01.00]你好"},
		"yrc": {"lyric": "[1000,500](1000,500,0)hello"},
		"ytlrc": {"lyric": "[00:01.00]yrc 你好"},
		"romalrc": {"lyric": ""}
	}`)
	src, err := DecodeNeteaseResponse("song", data)
	if err != nil {
		t.Fatalf("DecodeNeteaseResponse() error = %v", err)
	}
	if src.Lyrics != "[1000,500](1000,500,0)hello" || src.Fallback != "[00:01.00]hello" {
		t.Errorf("lyrics/fallback = %q / %q", src.Lyrics, src.Fallback)
	}
	if src.Translation != "[00:01.00]yrc 你好" {
		t.Errorf("translation = %q", src.Translation)
	}
	if src.Romanization != "" || src.Name != "song" {
		t.Errorf("src = %+v", src)
	}
}

func TestDecodeNeteaseResponseLrcOnly(t *testing.T) {
	src, err := DecodeNeteaseResponse("x", []byte(`{"lrc":{"lyric":"[00:01.00]a"},"tlyric":{"lyric":"[00:01.00]b"}}`))
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if src.Lyrics != "[00:01.00]a" || src.Fallback != "" || src.Translation != "[00:01.00]b" {
		t.Errorf("src = %+v", src)
	}
}

func TestDecodeNeteaseResponseErrors(t *testing.T) {
	if _, err := DecodeNeteaseResponse("bad", []byte("{")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := DecodeNeteaseResponse("pure", []byte(`{"pureMusic":true}`)); !errors.Is(err, ErrPureMusic) {
		t.Errorf("err = %v, want ErrPureMusic", err)
	}
	if _, err := DecodeNeteaseResponse("empty", []byte(`{"lrc":{"lyric":"  "}}`)); err == nil {
		t.Error("expected error for empty lyrics")
	}
}

func TestDetectLanguage(t *testing.T) {
	if got := DetectLanguage(nil); got != "" {
		t.Errorf("DetectLanguage(nil) = %q, want empty", got)
	}
	lines := []lyric.RichLine{
		{Line: lyric.Line{Text: "I walked along the river where the summer evening light was fading slowly"}},
		{Line: lyric.Line{Text: "and every single memory of you came back to me like an old familiar song"}},
	}
	if got := DetectLanguage(lines); got != "English" {
		t.Errorf("DetectLanguage() = %q, want English", got)
	}
}
