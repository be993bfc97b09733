package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/mocks"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"empty content", "", false},
		{"plain text", "Hello, world!\nThis is a script.\n", false},
		{"text with unicode", "Şok edici gerçekler 🎬", false},
		{"binary with null bytes", "some\x00binary\x00content", true},
		{"invalid UTF-8", string([]byte{0xff, 0xfe, 0x00, 0x01}), true},
		{"null byte past sample", strings.Repeat("a", 9000) + "\x00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinaryContent(tt.content); got != tt.expected {
				t.Errorf("IsBinaryContent() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one\n", []string{"one"}},
		{"one\ntwo\n", []string{"one", "two"}},
		{"one\n\ntwo", []string{"one", "", "two"}},
	}

	for _, tt := range tests {
		got := splitLines(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitLines(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func countTypes(lines []DiffLine) map[rune]int {
	counts := make(map[rune]int)
	for _, l := range lines {
		counts[l.Type]++
	}
	return counts
}

func TestLineDiff(t *testing.T) {
	lines := LineDiff("one\ntwo\n", "one\nthree\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, expected 3: %+v", len(lines), lines)
	}
	if lines[0].Type != ' ' || lines[0].LineNum1 != 1 || lines[0].LineNum2 != 1 || lines[0].Content != "one" {
		t.Errorf("first line = %+v", lines[0])
	}
	for _, l := range lines[1:] {
		switch l.Type {
		case '-':
			if l.Content != "two" || l.LineNum1 != 2 || l.LineNum2 != 0 {
				t.Errorf("deleted line = %+v", l)
			}
		case '+':
			if l.Content != "three" || l.LineNum1 != 0 || l.LineNum2 != 2 {
				t.Errorf("added line = %+v", l)
			}
		default:
			t.Errorf("unexpected line %+v", l)
		}
	}
}

func TestLineDiffEdgeCases(t *testing.T) {
	if got := LineDiff("same\n", "same\n"); len(got) != 1 || got[0].Type != ' ' {
		t.Errorf("identical content = %+v", got)
	}

	added := LineDiff("", "a\nb\n")
	if c := countTypes(added); c['+'] != 2 || len(added) != 2 {
		t.Errorf("all added = %+v", added)
	}
	if added[1].LineNum2 != 2 {
		t.Errorf("second added line number = %d, expected 2", added[1].LineNum2)
	}

	deleted := LineDiff("a\nb\nc", "")
	if c := countTypes(deleted); c['-'] != 3 {
		t.Errorf("all deleted = %+v", deleted)
	}

	if got := LineDiff("", ""); len(got) != 0 {
		t.Errorf("empty diff = %+v", got)
	}
}

func newDiffService() *mocks.MockTUIService {
	svc := mocks.NewMockTUIService()
	svc.Entries["demo/v1.zip"] = []ports.FileInfo{
		{Name: "title.txt", Size: 4, CRC32: 1},
		{Name: "script.txt", Size: 8, CRC32: 2},
		{Name: "voice.txt", Size: 8, CRC32: 3},
		{Name: "tags.txt", Size: 2, CRC32: 4},
	}
	svc.Entries["demo/v2.zip"] = []ports.FileInfo{
		{Name: "title.txt", Size: 4, CRC32: 1},
		{Name: "script.txt", Size: 8, CRC32: 5},
		{Name: "voice.txt", Size: 9, CRC32: 3},
		{Name: "meta.json", Size: 20, CRC32: 6},
	}
	return svc
}

func TestComputeDiff(t *testing.T) {
	svc := newDiffService()

	d, err := ComputeDiff(svc, &config.Config{}, "demo", "v1.zip", "v2.zip")
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}

	if d.Version1 != "v1" || d.Version2 != "v2" {
		t.Errorf("versions = %s, %s", d.Version1, d.Version2)
	}
	if d.Modified != 2 || d.Added != 1 || d.Deleted != 1 {
		t.Errorf("counts M=%d A=%d D=%d, expected 2/1/1", d.Modified, d.Added, d.Deleted)
	}

	var got []string
	for _, c := range d.Changes {
		got = append(got, string(c.Status)+" "+c.Name)
	}
	want := []string{"M script.txt", "M voice.txt", "A meta.json", "D tags.txt"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("changes = %v, expected %v", got, want)
	}

	if d.Changes[3].Size1 != 2 || d.Changes[3].Size2 != 0 {
		t.Errorf("deleted sizes = %d, %d", d.Changes[3].Size1, d.Changes[3].Size2)
	}
}

func TestComputeDiffIdentical(t *testing.T) {
	svc := newDiffService()

	d, err := ComputeDiff(svc, &config.Config{}, "demo", "v1.zip", "v1.zip")
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}
	if len(d.Changes) != 0 {
		t.Errorf("changes = %+v, expected none", d.Changes)
	}
}

func TestComputeDiffListError(t *testing.T) {
	svc := newDiffService()
	svc.EntriesError = errors.New("not a zip")

	_, err := ComputeDiff(svc, &config.Config{}, "demo", "v1.zip", "v2.zip")
	if err == nil || !strings.Contains(err.Error(), "reading v1.zip") {
		t.Errorf("expected wrapped list error, got %v", err)
	}
}

func TestListEntriesKeepsFirstDuplicate(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Entries["demo/dup.zip"] = []ports.FileInfo{
		{Name: "title.txt", Size: 1},
		{Name: "title.txt", Size: 2},
	}

	entries, err := listEntries(svc, &config.Config{}, "demo", "dup.zip")
	if err != nil {
		t.Fatal(err)
	}
	if entries["title.txt"].Size != 1 {
		t.Errorf("size = %d, expected first occurrence", entries["title.txt"].Size)
	}
}

func diffFixture() *DiffResult {
	return &DiffResult{File1: "v1.zip", File2: "v2.zip", Version1: "v1", Version2: "v2"}
}

func TestComputeEntryDiffModified(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Contents["demo/v1.zip/script.txt"] = "hello\nworld\n"
	svc.Contents["demo/v2.zip/script.txt"] = "hello\nthere\n"

	r, err := ComputeEntryDiff(svc, &config.Config{}, "demo", diffFixture(), EntryChange{Name: "script.txt", Status: 'M'})
	if err != nil {
		t.Fatal(err)
	}
	if r.Error != "" || r.IsBinary {
		t.Fatalf("unexpected result %+v", r)
	}
	c := countTypes(r.Lines)
	if c[' '] != 1 || c['-'] != 1 || c['+'] != 1 {
		t.Errorf("line types = %v", c)
	}
}

func TestComputeEntryDiffAddedAndDeleted(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Contents["demo/v2.zip/meta.json"] = "{\n}\n"
	svc.Contents["demo/v1.zip/tags.txt"] = "space\n"
	// Reading the missing side would fail if attempted.
	svc.ReadErrors["demo/v1.zip/meta.json"] = errors.New("not found")
	svc.ReadErrors["demo/v2.zip/tags.txt"] = errors.New("not found")

	r, _ := ComputeEntryDiff(svc, &config.Config{}, "demo", diffFixture(), EntryChange{Name: "meta.json", Status: 'A'})
	if r.Error != "" || countTypes(r.Lines)['+'] != 2 {
		t.Errorf("added result = %+v", r)
	}

	r, _ = ComputeEntryDiff(svc, &config.Config{}, "demo", diffFixture(), EntryChange{Name: "tags.txt", Status: 'D'})
	if r.Error != "" || countTypes(r.Lines)['-'] != 1 {
		t.Errorf("deleted result = %+v", r)
	}
}

func TestComputeEntryDiffBinary(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Contents["demo/v1.zip/thumb.bin"] = "\x00\x01"
	svc.Contents["demo/v2.zip/thumb.bin"] = "\x00\x02"

	r, _ := ComputeEntryDiff(svc, &config.Config{}, "demo", diffFixture(), EntryChange{Name: "thumb.bin", Status: 'M'})
	if !r.IsBinary || len(r.Lines) != 0 {
		t.Errorf("expected binary result, got %+v", r)
	}
}

func TestComputeEntryDiffReadErrors(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.ReadErrors["demo/v1.zip/script.txt"] = errors.New("crc mismatch")

	r, err := ComputeEntryDiff(svc, &config.Config{}, "demo", diffFixture(), EntryChange{Name: "script.txt", Status: 'M'})
	if err != nil {
		t.Fatalf("read errors belong in the result, got %v", err)
	}
	if !strings.Contains(r.Error, "v1") || !strings.Contains(r.Error, "crc mismatch") {
		t.Errorf("Error = %q", r.Error)
	}

	svc.ReadErrors = map[string]error{"demo/v2.zip/script.txt": errors.New("truncated")}
	r, _ = ComputeEntryDiff(svc, &config.Config{}, "demo", diffFixture(), EntryChange{Name: "script.txt", Status: 'M'})
	if !strings.Contains(r.Error, "v2") || !strings.Contains(r.Error, "truncated") {
		t.Errorf("Error = %q", r.Error)
	}
}
