package processor

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yleoer/lyrics/pkg/database"
	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/parser"
)

// memoryStore 是测试用的内存 LyricStore
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*database.LyricRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*database.LyricRecord{}}
}

func (m *memoryStore) SaveLyric(rec *database.LyricRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Path] = rec
	return nil
}

func (m *memoryStore) GetLyric(path string) (*database.LyricRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[path]; ok {
		return rec, nil
	}
	return nil, database.ErrNotFound
}

func (m *memoryStore) ListLyrics() ([]database.LyricSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.LyricSummary
	for _, rec := range m.records {
		out = append(out, database.LyricSummary{Path: rec.Path, Name: rec.Name, LineCount: len(rec.Lines)})
	}
	return out, nil
}

func (m *memoryStore) IsProcessed(path, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[path]
	return ok && rec.Fingerprint == fingerprint, nil
}

func (m *memoryStore) Close() error { return nil }

type upperConverter struct{}

func (upperConverter) TradToSim(text string) string { return strings.ToUpper(text) }

var discard = log.New(io.Discard, "", 0)

func sampleSource(path string) lyric.Source {
	return lyric.Source{
		Name:        "My Song",
		Path:        path,
		Lyrics:      "[ti:My Song]\n[00:01.00]hello\n[00:03.00]world\n",
		Translation: "[00:01.00]你好\n",
	}
}

func TestFingerprint(t *testing.T) {
	a := sampleSource("/a.lrc")
	b := a
	b.Translation = ""
	if Fingerprint(a) == Fingerprint(b) {
		t.Errorf("Fingerprint() did not change when translation changed")
	}
	if Fingerprint(a) != Fingerprint(sampleSource("/other.lrc")) {
		t.Errorf("Fingerprint() depends on path, want content only")
	}
	// 字段之间有分隔，内容挪位置不应得到相同指纹
	c := lyric.Source{Lyrics: "ab"}
	d := lyric.Source{Lyrics: "a", Fallback: "b"}
	if Fingerprint(c) == Fingerprint(d) {
		t.Errorf("Fingerprint() collides across fields")
	}
}

func TestProcessSavesAndExports(t *testing.T) {
	store := newMemoryStore()
	exportDir := t.TempDir()
	p := NewLyricProcessor(store, upperConverter{}, Options{ExportDir: exportDir, Tolerance: -1}, discard)

	rec, err := p.Process(context.Background(), sampleSource("/lyrics/song.lrc"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if rec.Dialect != "elrc" {
		t.Errorf("Dialect = %q, want elrc", rec.Dialect)
	}
	if rec.Info.Title != "My Song" {
		t.Errorf("Info.Title = %q, want My Song", rec.Info.Title)
	}
	if len(rec.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(rec.Lines))
	}
	if rec.Lines[0].Text != "HELLO" || rec.Lines[0].Translation != "你好" {
		t.Errorf("Lines[0] = %+v, want converted text with translation", rec.Lines[0])
	}
	if _, err := store.GetLyric("/lyrics/song.lrc"); err != nil {
		t.Errorf("record not saved: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(exportDir, "My Song.lrc"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.Contains(string(data), "[00:01.00]HELLO\n[00:01.00]你好\n") {
		t.Errorf("exported content = %q", data)
	}
}

func TestProcessSkipsUnchanged(t *testing.T) {
	store := newMemoryStore()
	p := NewLyricProcessor(store, nil, Options{Tolerance: -1}, discard)
	src := sampleSource("/lyrics/song.lrc")

	if _, err := p.Process(context.Background(), src); err != nil {
		t.Fatalf("first Process() error = %v", err)
	}
	if _, err := p.Process(context.Background(), src); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("second Process() error = %v, want ErrAlreadyProcessed", err)
	}
	src.Lyrics += "[00:05.00]again\n"
	if _, err := p.Process(context.Background(), src); err != nil {
		t.Errorf("Process() after change error = %v", err)
	}
}

func TestProcessSkipsUnchangedWithDefaultDuration(t *testing.T) {
	store := newMemoryStore()
	p := NewLyricProcessor(store, nil, Options{Tolerance: -1, DefaultDurationMs: 200000}, discard)
	src := sampleSource("/lyrics/song.lrc")

	rec, err := p.Process(context.Background(), src)
	if err != nil {
		t.Fatalf("first Process() error = %v", err)
	}
	if last := rec.Lines[len(rec.Lines)-1]; last.End != 200000 {
		t.Errorf("last.End = %d, want 200000", last.End)
	}
	if _, err := p.Process(context.Background(), src); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("second Process() error = %v, want ErrAlreadyProcessed", err)
	}
}

func TestProcessNoLyrics(t *testing.T) {
	p := NewLyricProcessor(nil, nil, Options{Tolerance: -1}, discard)
	_, err := p.Process(context.Background(), lyric.Source{Name: "empty", Lyrics: "just text\n"})
	if !errors.Is(err, ErrNoLyrics) {
		t.Errorf("Process() error = %v, want ErrNoLyrics", err)
	}
}

func TestBuildUsesDefaultDuration(t *testing.T) {
	p := NewLyricProcessor(nil, nil, Options{Tolerance: -1, DefaultDurationMs: 10000}, discard)
	rec, err := p.Build(lyric.Source{Name: "s", Lyrics: "[00:01.00]a\n[00:03.00]b\n"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	last := rec.Lines[len(rec.Lines)-1]
	if last.End != 10000 {
		t.Errorf("last.End = %d, want 10000", last.End)
	}
}

func TestProcessAll(t *testing.T) {
	store := newMemoryStore()
	p := NewLyricProcessor(store, nil, Options{Tolerance: -1, Workers: 2}, discard)
	sources := []lyric.Source{
		sampleSource("/a.lrc"),
		sampleSource("/b.lrc"),
		{Name: "bad", Path: "/bad.lrc", Lyrics: "no tags"},
		sampleSource("/c.lrc"),
	}

	n, err := p.ProcessAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ProcessAll() = %d, want 3", n)
	}
	n, err = p.ProcessAll(context.Background(), sources)
	if err != nil || n != 0 {
		t.Errorf("second ProcessAll() = %d, %v, want 0, nil", n, err)
	}
}

func TestProcessAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewLyricProcessor(nil, nil, Options{Tolerance: -1}, discard)
	if _, err := p.ProcessAll(ctx, []lyric.Source{sampleSource("/a.lrc")}); !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessAll() error = %v, want context.Canceled", err)
	}
}

func TestBuildAs(t *testing.T) {
	p := NewLyricProcessor(nil, nil, Options{Tolerance: -1}, discard)
	src := lyric.Source{
		Name:        "q",
		Lyrics:      "[1000,500]a(1000,200)b(1200,300)\n",
		Translation: "[00:01.00]甲\n",
	}

	rec, err := p.BuildAs(parser.SyllableBlock, src)
	if err != nil {
		t.Fatalf("BuildAs(qrc) error = %v", err)
	}
	if rec.Dialect != "qrc" || len(rec.Lines) != 1 {
		t.Fatalf("BuildAs(qrc) = %s with %d lines", rec.Dialect, len(rec.Lines))
	}
	if rec.Lines[0].Text != "ab" || rec.Lines[0].Translation != "甲" || rec.Lines[0].End != 1500 {
		t.Errorf("Lines[0] = %+v", rec.Lines[0])
	}

	if _, err := p.BuildAs(parser.TagTuple, lyric.Source{Name: "plain", Lyrics: "plain text\n"}); !errors.Is(err, ErrNoLyrics) {
		t.Errorf("BuildAs(yrc) error = %v, want ErrNoLyrics", err)
	}

	auto, err := p.BuildAs(parser.Auto, src)
	if err != nil || auto.Dialect != "qrc" {
		t.Errorf("BuildAs(auto) = %+v, %v, want qrc", auto, err)
	}
}
